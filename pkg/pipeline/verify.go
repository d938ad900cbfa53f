package pipeline

import (
	"fmt"
	"strings"

	"github.com/evanw/esbuild/pkg/api"

	"github.com/gnana997/uiimport/pkg/parser"
)

// VerifyError reports output that esbuild could not parse.
type VerifyError struct {
	Path     string
	Messages []string
}

func (e *VerifyError) Error() string {
	return fmt.Sprintf("%s: rewritten output does not parse:\n%s", e.Path, strings.Join(e.Messages, "\n"))
}

// Verify parses code with esbuild using the loader of dialect. Plain
// JavaScript is checked with the JSX loader since .js files commonly hold JSX.
func Verify(path string, dialect parser.Dialect, code string) error {
	loader := api.LoaderJSX
	switch dialect {
	case parser.DialectTypeScript:
		loader = api.LoaderTS
	case parser.DialectTSX:
		loader = api.LoaderTSX
	}

	result := api.Transform(code, api.TransformOptions{
		Loader:     loader,
		Sourcefile: path,
		LogLevel:   api.LogLevelSilent,
	})
	if len(result.Errors) == 0 {
		return nil
	}

	verr := &VerifyError{Path: path}
	for _, msg := range result.Errors {
		if msg.Location != nil {
			verr.Messages = append(verr.Messages, fmt.Sprintf("%d:%d: %s", msg.Location.Line, msg.Location.Column, msg.Text))
		} else {
			verr.Messages = append(verr.Messages, msg.Text)
		}
	}
	return verr
}
