// Package pipeline streams alignment groups from SAM/BAM files through a
// shared error model on a pool of workers.
//
// The only contract to implement is Model (Score/Train/HasIndel), which keeps
// the pipeline testable with fakes.
package pipeline
