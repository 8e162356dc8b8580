// Package filesync moves config content between the store and the real
// filesystem.
//
// PushToFiles writes every stored config to its path (store => files).
// PullFromFiles reads every tracked path back into the store (files =>
// store). Both are whole-table passes that stop at the first failure without
// rolling back what was already written.
package filesync
