// ABOUTME: Format dispatch for graph rendering: dot, mermaid, svg, png.
// ABOUTME: Raster/vector formats shell out to the graphviz dot command.
package render

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strings"

	"github.com/2389-research/plexus/graph"
)

// Supported output formats.
const (
	FormatDOT     = "dot"
	FormatMermaid = "mermaid"
	FormatSVG     = "svg"
	FormatPNG     = "png"
)

// Render produces rendered output for a graph in the given format. "dot" and
// "mermaid" return diagram text; "svg" and "png" shell out to graphviz and
// require it to be installed.
func Render(ctx context.Context, g *graph.Graph, format string) ([]byte, error) {
	if g == nil {
		return nil, fmt.Errorf("cannot render nil graph")
	}

	switch format {
	case FormatDOT:
		return []byte(DOT(g)), nil
	case FormatMermaid:
		return []byte(Mermaid(g)), nil
	case FormatSVG, FormatPNG:
		return renderDOTSourceWithGraphviz(ctx, DOT(g), format)
	default:
		return nil, fmt.Errorf("unsupported format %q: supported formats are dot, mermaid, svg, png", format)
	}
}

// RenderDOTSource renders raw DOT text to the given format. For "dot" it
// returns the input as-is. Useful when the text has already been generated
// and cached.
func RenderDOTSource(ctx context.Context, dotText string, format string) ([]byte, error) {
	if dotText == "" {
		return nil, fmt.Errorf("cannot render empty DOT text")
	}

	switch format {
	case FormatDOT:
		return []byte(dotText), nil
	case FormatSVG, FormatPNG:
		return renderDOTSourceWithGraphviz(ctx, dotText, format)
	default:
		return nil, fmt.Errorf("unsupported format %q: supported formats are dot, svg, png", format)
	}
}

// GraphvizAvailable checks whether the graphviz dot command is installed and
// reachable.
func GraphvizAvailable() bool {
	_, err := exec.LookPath("dot")
	return err == nil
}

// renderDOTSourceWithGraphviz pipes DOT text to the graphviz dot command.
func renderDOTSourceWithGraphviz(ctx context.Context, dotText string, format string) ([]byte, error) {
	if !GraphvizAvailable() {
		return nil, fmt.Errorf("graphviz dot command not found: install graphviz to render %s output", format)
	}

	cmd := exec.CommandContext(ctx, "dot", "-T"+format)
	cmd.Stdin = strings.NewReader(dotText)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return nil, fmt.Errorf("graphviz dot command failed: %w: %s", err, stderr.String())
	}

	return stdout.Bytes(), nil
}
