package queries

// importQuery captures every import statement with a string source.
//
// Captures:
//   - @import.statement - the whole import_statement
//   - @import.source - the module source text without quotes
const importQuery = `
(import_statement
  source: (string (string_fragment) @import.source)
) @import.statement
`

// requireQuery captures require calls whose only argument is a string.
//
// Captures:
//   - @require.call - the call_expression
//   - @require.fn - the callee, filtered to "require"
//   - @require.source - the module source text without quotes
const requireQuery = `
(call_expression
  function: (identifier) @require.fn
  arguments: (arguments . (string (string_fragment) @require.source) .)
  (#eq? @require.fn "require")
) @require.call
`
