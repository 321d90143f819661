// Package plan loads TOML plan files and lowers them into executable
// task trees.
//
// A plan declares a titled tree of steps: grouping steps hold nested
// steps, command steps run a shell command, and copy steps move a file
// with optional integrity verification. Command output becomes the
// step's result and is threaded into the next step by the tasktree
// engine; a step can receive the previous result on stdin or through
// the TREERUN_PREV environment variable.
package plan
