package mcp

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/gnana997/uiimport/pkg/config"
	"github.com/gnana997/uiimport/pkg/naming"
	"github.com/gnana997/uiimport/pkg/parser/queries"
	"github.com/gnana997/uiimport/pkg/pipeline"
	"github.com/gnana997/uiimport/pkg/transform"
)

type transformResponse struct {
	Code       string                     `json:"code"`
	Changed    bool                       `json:"changed"`
	Stats      transform.Stats            `json:"stats"`
	PerLibrary map[string]transform.Stats `json:"per_library,omitempty"`
	Diff       string                     `json:"diff,omitempty"`
}

type ruleView struct {
	LibraryName              string `json:"libraryName"`
	LibraryDirectory         string `json:"libraryDirectory"`
	Style                    string `json:"style"`
	StyleLibraryDirectory    string `json:"styleLibraryDirectory,omitempty"`
	Camel2DashComponentName  bool   `json:"camel2DashComponentName"`
	CustomName               bool   `json:"customName,omitempty"`
	TransformToDefaultImport bool   `json:"transformToDefaultImport"`
	NamespaceImports         string `json:"namespaceImports"`
}

type librariesResponse struct {
	Libraries []ruleView `json:"libraries"`
	Presets   []string   `json:"presets"`
}

type scanResponse struct {
	References []queries.Reference      `json:"references"`
	Usage      []*pipeline.LibraryUsage `json:"usage"`
}

func (s *Server) handleTransformCode(_ context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	code, err := req.RequireString("code")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	filename := req.GetString("filename", defaultFilename)

	p, release, err := s.pipelineFor(req.GetArguments()["options"])
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	defer release()

	res, err := p.TransformSource(filename, []byte(code))
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	resp := transformResponse{
		Code:       res.Output,
		Changed:    res.Changed,
		Stats:      res.Stats,
		PerLibrary: res.PerLibrary,
	}
	if req.GetBool("diff", false) {
		resp.Diff = pipeline.Diff(filename, code, res.Output).Unified
	}
	return jsonResult(resp)
}

// pipelineFor returns the server pipeline, or a temporary one for a rule
// document passed with the call. release must be called when done.
func (s *Server) pipelineFor(options any) (*pipeline.Pipeline, func(), error) {
	if options == nil {
		return s.pipeline, func() {}, nil
	}

	doc, err := json.Marshal(options)
	if err != nil {
		return nil, nil, fmt.Errorf("invalid options: %w", err)
	}
	rules, err := config.ParseRules(doc)
	if err != nil {
		return nil, nil, err
	}
	opts, err := config.RuleOptions(rules, s.baseDir)
	if err != nil {
		return nil, nil, err
	}

	p, err := pipeline.New(pipeline.Config{Rules: opts}, s.pipeline.Logger())
	if err != nil {
		return nil, nil, err
	}
	return p, func() { _ = p.Close() }, nil
}

func (s *Server) handleListLibraries(_ context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	resp := librariesResponse{Presets: config.PresetNames()}
	for _, o := range s.pipeline.Rules() {
		resp.Libraries = append(resp.Libraries, viewRule(o))
	}
	return jsonResult(resp)
}

func viewRule(o transform.Options) ruleView {
	v := ruleView{
		LibraryName:              o.LibraryName,
		LibraryDirectory:         o.LibraryDirectory,
		StyleLibraryDirectory:    o.StyleLibraryDirectory,
		Camel2DashComponentName:  o.Camel2DashComponentName,
		CustomName:               o.CustomName != nil,
		TransformToDefaultImport: o.TransformToDefaultImport,
		NamespaceImports:         o.NamespaceImports.String(),
	}
	if v.LibraryDirectory == "" {
		v.LibraryDirectory = naming.DefaultLibraryDirectory
	}
	switch {
	case o.StyleFunc != nil:
		v.Style = "function"
	case o.Style == naming.StyleNone:
		v.Style = "none"
	case o.Style == naming.StyleCSS:
		v.Style = "css"
	default:
		v.Style = "default"
	}
	return v
}

func (s *Server) handleScanCode(_ context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	code, err := req.RequireString("code")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	filename := req.GetString("filename", defaultFilename)

	res, err := s.pipeline.ScanSource(filename, []byte(code))
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	resp := scanResponse{
		References: res.References,
		Usage:      s.pipeline.Usage([]*pipeline.ScanResult{res}),
	}
	if resp.References == nil {
		resp.References = []queries.Reference{}
	}
	return jsonResult(resp)
}

func jsonResult(v any) (*mcp.CallToolResult, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("failed to encode result: %w", err)
	}
	return mcp.NewToolResultText(string(b)), nil
}
