package scanner

import (
	"fmt"
	"strconv"
	"strings"

	"golang.org/x/net/html"

	"github.com/greg-randall/wave-report/internal/config"
	"github.com/greg-randall/wave-report/internal/model"
)

// selector is the parsed form of an extraction selector.
// The supported grammar is "tag#id" optionally followed by a descendant
// tag: "li#error span" means the first span inside the element with
// id "error" and tag li. The tag may be omitted ("#wave5_loading").
// This deliberately covers only what the extraction mapping needs;
// arbitrary CSS selection belongs to the browser, not the parser.
type selector struct {
	tag        string
	id         string
	descendant string
}

// parseSelector parses the "tag#id [descendant]" grammar.
func parseSelector(raw string) (selector, error) {
	fields := strings.Fields(raw)
	if len(fields) == 0 || len(fields) > 2 {
		return selector{}, fmt.Errorf("unsupported selector %q", raw)
	}

	tag, id, found := strings.Cut(fields[0], "#")
	if !found || id == "" {
		return selector{}, fmt.Errorf("selector %q must contain an element id", raw)
	}

	sel := selector{tag: tag, id: id}
	if len(fields) == 2 {
		sel.descendant = fields[1]
	}
	return sel, nil
}

// ExtractMetrics pulls the configured metrics out of the rendered report
// page. Using a real HTML parser rather than regex keeps extraction
// stable against attribute ordering and the malformed markup real pages
// carry. A metric whose element or value is missing fails the whole
// extraction; a partially populated record would be indistinguishable
// from a genuine zero result.
func ExtractMetrics(doc string, mapping []config.MetricSelector) ([]model.Metric, error) {
	root, err := html.Parse(strings.NewReader(doc))
	if err != nil {
		return nil, fmt.Errorf("failed to parse page content: %w", err)
	}

	metrics := make([]model.Metric, 0, len(mapping))
	for _, m := range mapping {
		sel, err := parseSelector(m.Selector)
		if err != nil {
			return nil, fmt.Errorf("metric %q: %w", m.Label, err)
		}

		node := findByID(root, sel.tag, sel.id)
		if node == nil {
			return nil, fmt.Errorf("metric %q: no element matches %q", m.Label, m.Selector)
		}
		if sel.descendant != "" {
			node = findFirstTag(node, sel.descendant)
			if node == nil {
				return nil, fmt.Errorf("metric %q: no %q inside %q", m.Label, sel.descendant, m.Selector)
			}
		}

		value, err := parseMetricValue(textContent(node), m.Score)
		if err != nil {
			return nil, fmt.Errorf("metric %q: %w", m.Label, err)
		}
		metrics = append(metrics, model.Metric{Label: m.Label, Value: value})
	}

	return metrics, nil
}

// parseMetricValue converts the element text into a number.
// Counts must be integers; scores may carry a decimal part. Thousands
// separators are tolerated either way.
func parseMetricValue(text string, score bool) (float64, error) {
	text = strings.ReplaceAll(strings.TrimSpace(text), ",", "")
	if text == "" {
		return 0, fmt.Errorf("element holds no value")
	}

	if score {
		value, err := strconv.ParseFloat(text, 64)
		if err != nil {
			return 0, fmt.Errorf("value %q is not a number: %w", text, err)
		}
		return value, nil
	}

	count, err := strconv.Atoi(text)
	if err != nil {
		return 0, fmt.Errorf("value %q is not an integer count: %w", text, err)
	}
	return float64(count), nil
}

// findByID walks the tree for an element with the given id, and tag when
// one is specified.
func findByID(n *html.Node, tag, id string) *html.Node {
	if n.Type == html.ElementNode && (tag == "" || n.Data == tag) {
		for _, attr := range n.Attr {
			if attr.Key == "id" && attr.Val == id {
				return n
			}
		}
	}
	for child := n.FirstChild; child != nil; child = child.NextSibling {
		if found := findByID(child, tag, id); found != nil {
			return found
		}
	}
	return nil
}

// findFirstTag returns the first descendant element with the given tag.
func findFirstTag(n *html.Node, tag string) *html.Node {
	for child := n.FirstChild; child != nil; child = child.NextSibling {
		if child.Type == html.ElementNode && child.Data == tag {
			return child
		}
		if found := findFirstTag(child, tag); found != nil {
			return found
		}
	}
	return nil
}

// textContent concatenates all text nodes under n.
func textContent(n *html.Node) string {
	if n.Type == html.TextNode {
		return n.Data
	}
	var sb strings.Builder
	for child := n.FirstChild; child != nil; child = child.NextSibling {
		sb.WriteString(textContent(child))
	}
	return sb.String()
}
