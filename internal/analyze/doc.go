// Package analyze orchestrates the review pipeline per file and across
// directory trees.
//
// Every file gets a pattern scan; files analyzed under a remote provider
// also get a model review through the governed completion path, with the
// raw response normalized into category-complete findings. Directory
// analysis fans out over a bounded worker pool; individual file failures
// are logged and skipped, never aborting the batch.
package analyze
