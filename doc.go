// Package nickeleval embeds a strict configuration-language evaluator
// behind a foreign-call style boundary: sources in, opaque result
// handles out, structured errors in a per-session slot.
//
// # Architecture Overview
//
// The module is organized into several packages with distinct
// responsibilities:
//
//	nickeleval/          Root package with the core interfaces
//	├── boundary/        Call surface: sessions, handles, the error slot
//	├── lang/            Lexer, parser, and tree-walking interpreter
//	├── value/           The evaluated value tree and numeric narrowing
//	├── native/          Depth-limited binary wire codec for value trees
//	├── export/          JSON, YAML, TOML, and CBOR renderings
//	├── resource/        Result ownership table with misuse detection
//	└── errors/          Structured phase/kind error types
//
// # Quick Start
//
// Evaluate a source string and read the result back:
//
//	s := boundary.NewSession()
//	defer s.Close()
//
//	h := s.EvalToText([]byte("1 + 2"))
//	if h == 0 {
//	    log.Fatal(s.LastError())
//	}
//	text, _ := s.Text(h)
//	fmt.Println(text) // "3"
//	s.ReleaseText(h)
//
// # Value Model
//
// Evaluation produces one of seven value shapes: null, booleans,
// arbitrary-precision numbers, strings, arrays, records with ordered
// fields, and enum tags with an optional argument. Numbers narrow to
// int64 when they are whole and in range, otherwise to float64.
//
// # Thread Safety
//
// A boundary.Session carries per-caller state and is NOT safe for
// concurrent use; give each goroutine its own. A resource.Table is
// safe to share between sessions.
package nickeleval
