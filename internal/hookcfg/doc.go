// Package hookcfg models pre-commit hook source declarations.
//
// It parses the declaration file listing external hook repositories, their
// pinned revisions, and hook invocations, validates the declarations both
// structurally (against an embedded JSON Schema) and semantically, and
// renders the canonical serialized form. Execution of the declared hooks
// belongs to the external consuming tool and is out of scope.
package hookcfg
