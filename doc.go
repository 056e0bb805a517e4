// Package flexform compiles operator-edited form data into Flex messages for
// a chat messaging platform.
//
// One call does everything the editing UI, the publish action and the public
// delivery page need:
//
//	res := flexform.Compile(tpl, data)
//	if res.CanPublish() {
//		persist(res.Message)
//	}
//	for _, e := range res.Errors {
//		highlight(e.Path, e.Message)
//	}
//
// Compile resolves the effective template (templates.Resolver), validates
// the data against its schema (validate.SchemaData), renders the message
// (render.Renderer) and applies the platform's structural rules
// (validate.MessageStructure). Errors from every stage come back in one
// ordered issue.List.
//
// Design policy:
//   - The root package only orchestrates; each stage lives in its own package.
//   - Compilation is a pure function of its inputs: no I/O, no logging, no
//     shared mutable state. Persistence and delivery live in docs and store.
//   - Prefer black-box tests against public APIs.
package flexform
