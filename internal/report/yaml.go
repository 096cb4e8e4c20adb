package report

import (
	"bytes"
	"fmt"
	"io"

	"github.com/khanhnv2901/siteverify/internal/audit"
	"gopkg.in/yaml.v3"
)

// writeYAML emits the same document as the JSON report. The JSON encoding is
// decoded into a yaml.Node so key names and order match the JSON exactly.
func writeYAML(out io.Writer, rep *audit.Report) error {
	var buf bytes.Buffer
	if err := writeJSON(&buf, rep); err != nil {
		return err
	}

	var doc yaml.Node
	if err := yaml.Unmarshal(buf.Bytes(), &doc); err != nil {
		return fmt.Errorf("convert report to yaml: %w", err)
	}
	blockStyle(&doc)

	enc := yaml.NewEncoder(out)
	enc.SetIndent(2)
	if err := enc.Encode(&doc); err != nil {
		return err
	}
	return enc.Close()
}

// blockStyle drops the flow style inherited from JSON syntax.
func blockStyle(n *yaml.Node) {
	if n.Kind == yaml.MappingNode || n.Kind == yaml.SequenceNode {
		n.Style = 0
	}
	if n.Kind == yaml.ScalarNode && n.Tag == "!!str" {
		n.Style = 0
	}
	for _, c := range n.Content {
		blockStyle(c)
	}
}
