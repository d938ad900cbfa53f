package transform

import (
	"strings"

	"github.com/gnana997/uiimport/pkg/ast"
)

// assemble drops library imports left without specifiers and prepends the
// pending buffer. `import 'lib'` has no clause to empty and is kept.
func (r *run) assemble(m *ast.Module) *ast.Module {
	body, trailing, _ := walker{h: handlers{importDecl: (*run).dropEmpty}}.list(r, m.Body, m.Trailing)
	if len(r.pending) == 0 {
		return &ast.Module{Body: body, Trailing: trailing}
	}

	header := ""
	if len(body) > 0 {
		var rest string
		header, rest = splitHeader(ast.TriviaOf(body[0]).Leading)
		if rest == "" || rest[0] != '\n' {
			rest = "\n" + rest
		}
		body[0] = ast.WithLeading(body[0], rest)
	}
	for i, s := range r.pending {
		if i == 0 {
			ast.TriviaOf(s).Leading = header
		} else {
			ast.TriviaOf(s).Leading = "\n"
		}
	}

	out := make([]ast.Stmt, 0, len(r.pending)+len(body))
	out = append(out, r.pending...)
	out = append(out, body...)
	return &ast.Module{Body: out, Trailing: trailing}
}

func (r *run) dropEmpty(decl *ast.ImportDecl) ([]ast.Stmt, error) {
	if r.matches(decl) && !decl.SideEffect && len(decl.Specifiers) == 0 {
		r.stats.RemovedStatements++
		return nil, nil
	}
	return []ast.Stmt{decl}, nil
}

// splitHeader separates the file header from the leading trivia of the first
// statement. The header is a shebang line, or any comments followed by a blank
// line; comments directly above the statement stay with it.
func splitHeader(lead string) (header, rest string) {
	if i := strings.LastIndex(lead, "\n\n"); i >= 0 && ast.HasComment(lead[:i]) {
		return lead[:i+1], lead[i+1:]
	}
	if strings.HasPrefix(lead, "#!") {
		j := strings.IndexByte(lead, '\n')
		if j < 0 {
			return lead, ""
		}
		return lead[:j+1], lead[j:]
	}
	return "", lead
}
