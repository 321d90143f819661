package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/mattn/go-isatty"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"treerun/internal/tasktree"
)

const (
	ansiReset  = "\x1b[0m"
	ansiGreen  = "\x1b[32m"
	ansiYellow = "\x1b[33m"
	ansiRed    = "\x1b[31m"
)

var stageTitler = cases.Title(language.English)

// stageLabel renders a stage kind for humans, e.g. "Success Completed".
func stageLabel(kind tasktree.Kind) string {
	return stageTitler.String(strings.ReplaceAll(string(kind), "_", " "))
}

func stageColor(kind tasktree.Kind) string {
	switch kind {
	case tasktree.KindSuccess, tasktree.KindSuccessCompleted:
		return ansiGreen
	case tasktree.KindFailed, tasktree.KindFailedCompleted:
		return ansiRed
	case tasktree.KindRunning:
		return ansiYellow
	default:
		return ""
	}
}

// renderTree formats a tree snapshot as a three-column table. Tasks
// that never ran show an empty stage column.
func renderTree(node tasktree.Node, colorize bool) string {
	var rows [][]string
	appendTreeRows(&rows, node, 0, colorize)
	return renderTable(
		[]string{"Task", "Stage", "Detail"},
		rows,
		[]columnAlignment{alignLeft, alignLeft, alignLeft},
	)
}

func appendTreeRows(rows *[][]string, node tasktree.Node, depth int, colorize bool) {
	title := strings.Repeat("  ", depth) + node.Title
	stage := ""
	detail := ""
	if node.Stage != nil {
		stage = stageLabel(node.Stage.Kind)
		if colorize {
			if color := stageColor(node.Stage.Kind); color != "" {
				stage = color + stage + ansiReset
			}
		}
		detail = node.Stage.Message
		if node.Stage.Error != "" {
			detail = node.Stage.Error
		}
	}
	*rows = append(*rows, []string{title, stage, detail})
	for _, child := range node.Children {
		appendTreeRows(rows, child, depth+1, colorize)
	}
}

func printTree(w io.Writer, node tasktree.Node) {
	fmt.Fprintln(w, renderTree(node, shouldColorize(w)))
}

func shouldColorize(writer io.Writer) bool {
	file, ok := writer.(*os.File)
	if !ok {
		return false
	}
	fd := file.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}
