// Package writers turns scored alignments into serialized outputs.
//
// Design:
//   - Writers own all presentation knowledge (TSV, JSONL).
//   - Pipeline stays orchestration-only.
//   - JSONL goes through pkg/api (v1) for a stable wire format.
package writers
