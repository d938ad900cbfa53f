package mcp

import "github.com/mark3labs/mcp-go/mcp"

const defaultFilename = "input.tsx"

func transformCodeTool() mcp.Tool {
	return mcp.NewTool("transform_code",
		mcp.WithDescription("Rewrite whole-library imports and requires of UI component libraries "+
			"into per-component imports plus their stylesheet imports. Returns the rewritten code, "+
			"whether it changed and rewrite counts."),
		mcp.WithString("code",
			mcp.Required(),
			mcp.Description("JavaScript or TypeScript module source"),
		),
		mcp.WithString("filename",
			mcp.Description("File name selecting the dialect by extension (.js, .jsx, .ts, .tsx, .mjs, .cjs). Default "+defaultFilename),
		),
		mcp.WithObject("options",
			mcp.Description("Library rule or array of rules overriding the configured libraries, "+
				`e.g. {"libraryName": "antd", "libraryDirectory": "es", "style": "css"}`),
		),
		mcp.WithBoolean("diff",
			mcp.Description("Include a unified diff of the change"),
		),
		mcp.WithReadOnlyHintAnnotation(true),
	)
}

func listLibrariesTool() mcp.Tool {
	return mcp.NewTool("list_libraries",
		mcp.WithDescription("List the configured library rules and the built-in presets."),
		mcp.WithReadOnlyHintAnnotation(true),
	)
}

func scanCodeTool() mcp.Tool {
	return mcp.NewTool("scan_code",
		mcp.WithDescription("List the imports and requires of configured UI libraries in a module "+
			"and the component names bound from each library, without rewriting."),
		mcp.WithString("code",
			mcp.Required(),
			mcp.Description("JavaScript or TypeScript module source"),
		),
		mcp.WithString("filename",
			mcp.Description("File name selecting the dialect by extension. Default "+defaultFilename),
		),
		mcp.WithReadOnlyHintAnnotation(true),
	)
}
