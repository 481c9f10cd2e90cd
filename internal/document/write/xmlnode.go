package write

import (
	"bytes"
	"encoding/xml"
	"errors"
	"io"
	"regexp"
	"sort"
	"strings"
)

const wmlNamespace = "http://schemas.openxmlformats.org/wordprocessingml/2006/main"
const relNamespace = "http://schemas.openxmlformats.org/officeDocument/2006/relationships"

type xmlNode struct {
	Name     xml.Name
	Attr     []xml.Attr
	Children []*xmlNode
	Text     string
	IsText   bool
}

var xmlHeaderPattern = regexp.MustCompile(`(?s)^\s*(<\?xml[^>]+\?>)`)

func parseXMLDocument(xmlText string) (*xmlNode, string, error) {
	header := ""
	if match := xmlHeaderPattern.FindStringSubmatch(xmlText); len(match) > 0 {
		header = match[1]
		xmlText = strings.TrimSpace(xmlText[len(match[0]):])
	}

	decoder := xml.NewDecoder(strings.NewReader(xmlText))
	var stack []*xmlNode
	var root *xmlNode

	for {
		token, err := decoder.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, "", err
		}

		switch t := token.(type) {
		case xml.StartElement:
			node := &xmlNode{Name: t.Name, Attr: t.Attr}
			if len(stack) == 0 {
				root = node
			} else {
				parent := stack[len(stack)-1]
				parent.Children = append(parent.Children, node)
			}
			stack = append(stack, node)
		case xml.EndElement:
			if len(stack) > 0 {
				stack = stack[:len(stack)-1]
			}
		case xml.CharData:
			if len(stack) == 0 {
				continue
			}
			text := string([]byte(t))
			if text == "" {
				continue
			}
			parent := stack[len(stack)-1]
			parent.Children = append(parent.Children, &xmlNode{IsText: true, Text: text})
		}
	}

	if root == nil {
		return nil, "", errors.New("document.xml has no root element")
	}

	return root, header, nil
}

func encodeXMLDocument(header string, root *xmlNode, rootStart, rootEnd string) (string, error) {
	var buf bytes.Buffer
	if header != "" {
		buf.WriteString(header)
		if !strings.HasSuffix(header, "\n") {
			buf.WriteByte('\n')
		}
	}

	clone := cloneNode(root)
	normalizeXMLNSAttrs(clone)
	applyPrefixMap(clone, prefixMapFromRoot(root))

	required := requiredNamespaceMap(prefixesUsed(clone), root)
	rootStart = ensureRootHasNamespaces(rootStart, required)
	buf.WriteString(rootStart)

	encoder := xml.NewEncoder(&buf)
	for _, child := range clone.Children {
		if err := encodeXMLNode(encoder, child); err != nil {
			return "", err
		}
	}
	if err := encoder.Flush(); err != nil {
		return "", err
	}

	buf.WriteString(rootEnd)
	return buf.String(), nil
}

func encodeXMLNode(encoder *xml.Encoder, node *xmlNode) error {
	if node.IsText {
		return encoder.EncodeToken(xml.CharData([]byte(node.Text)))
	}
	start := xml.StartElement{Name: node.Name, Attr: node.Attr}
	if err := encoder.EncodeToken(start); err != nil {
		return err
	}
	for _, child := range node.Children {
		if err := encodeXMLNode(encoder, child); err != nil {
			return err
		}
	}
	return encoder.EncodeToken(start.End())
}

func findBodyNode(root *xmlNode) *xmlNode {
	if root == nil {
		return nil
	}
	var match *xmlNode
	walkXML(root, func(node *xmlNode) bool {
		if isElement(node, "body") {
			match = node
			return false
		}
		return true
	})
	return match
}

func paragraphText(p *xmlNode) string {
	var builder strings.Builder
	for _, node := range collectTextElements(p) {
		builder.WriteString(nodeText(node))
	}
	return builder.String()
}

func collectTextElements(node *xmlNode) []*xmlNode {
	out := []*xmlNode{}
	walkXML(node, func(n *xmlNode) bool {
		if isElement(n, "t") {
			out = append(out, n)
		}
		return true
	})
	return out
}

func collectParagraphs(node *xmlNode) []*xmlNode {
	out := []*xmlNode{}
	walkXML(node, func(n *xmlNode) bool {
		if isElement(n, "p") {
			out = append(out, n)
		}
		return true
	})
	return out
}

func nodeText(node *xmlNode) string {
	if node.IsText {
		return node.Text
	}
	var builder strings.Builder
	for _, child := range node.Children {
		if child.IsText {
			builder.WriteString(child.Text)
		}
	}
	return builder.String()
}

func setNodeText(node *xmlNode, text string) {
	node.Children = node.Children[:0]
	if text == "" {
		return
	}
	node.Children = append(node.Children, &xmlNode{IsText: true, Text: text})
}

// ensureSpacePreserve keeps leading or trailing whitespace alive after a rewrite.
func ensureSpacePreserve(node *xmlNode, text string) {
	if text == strings.TrimSpace(text) {
		return
	}
	for _, attr := range node.Attr {
		if attr.Name.Local == "space" {
			return
		}
	}
	node.Attr = append(node.Attr, xml.Attr{
		Name:  xml.Name{Space: "xml", Local: "space"},
		Value: "preserve",
	})
}

func cloneNode(node *xmlNode) *xmlNode {
	if node == nil {
		return nil
	}
	cloned := &xmlNode{
		Name:   node.Name,
		Attr:   append([]xml.Attr(nil), node.Attr...),
		Text:   node.Text,
		IsText: node.IsText,
	}
	if len(node.Children) > 0 {
		cloned.Children = make([]*xmlNode, 0, len(node.Children))
		for _, child := range node.Children {
			cloned.Children = append(cloned.Children, cloneNode(child))
		}
	}
	return cloned
}

func isElement(node *xmlNode, local string) bool {
	if node == nil || node.IsText {
		return false
	}
	if node.Name.Local != local {
		return false
	}
	return node.Name.Space == "" || node.Name.Space == wmlNamespace
}

func walkXML(node *xmlNode, visit func(*xmlNode) bool) bool {
	if node == nil {
		return true
	}
	if !visit(node) {
		return false
	}
	for _, child := range node.Children {
		if !walkXML(child, visit) {
			return false
		}
	}
	return true
}

func normalizeXMLNSAttrs(node *xmlNode) {
	if node == nil {
		return
	}
	if !node.IsText {
		for i, attr := range node.Attr {
			if attr.Name.Space != "xmlns" {
				continue
			}
			attr.Name.Space = ""
			if attr.Name.Local == "" {
				attr.Name.Local = "xmlns"
			} else {
				attr.Name.Local = "xmlns:" + attr.Name.Local
			}
			node.Attr[i] = attr
		}
	}
	for _, child := range node.Children {
		normalizeXMLNSAttrs(child)
	}
}

func prefixMapFromRoot(root *xmlNode) map[string]string {
	if root == nil {
		return nil
	}
	out := make(map[string]string)
	for _, attr := range root.Attr {
		if attr.Name.Space == "xmlns" {
			out[attr.Value] = attr.Name.Local
			continue
		}
		if attr.Name.Space == "" && attr.Name.Local == "xmlns" {
			out[attr.Value] = ""
			continue
		}
		if attr.Name.Space == "" && strings.HasPrefix(attr.Name.Local, "xmlns:") {
			out[attr.Value] = strings.TrimPrefix(attr.Name.Local, "xmlns:")
		}
	}
	return out
}

func namespaceDeclsFromRoot(root *xmlNode) map[string]string {
	if root == nil {
		return nil
	}
	out := make(map[string]string)
	for _, attr := range root.Attr {
		if attr.Name.Space == "xmlns" {
			out[attr.Name.Local] = attr.Value
			continue
		}
		if attr.Name.Space == "" && attr.Name.Local == "xmlns" {
			out[""] = attr.Value
			continue
		}
		if attr.Name.Space == "" && strings.HasPrefix(attr.Name.Local, "xmlns:") {
			out[strings.TrimPrefix(attr.Name.Local, "xmlns:")] = attr.Value
		}
	}
	return out
}

func prefixesUsed(node *xmlNode) map[string]struct{} {
	out := make(map[string]struct{})
	walkXML(node, func(n *xmlNode) bool {
		if n.IsText {
			return true
		}
		if prefix := prefixFromName(n.Name.Local); prefix != "" {
			out[prefix] = struct{}{}
		}
		for _, attr := range n.Attr {
			if prefix := prefixFromName(attr.Name.Local); prefix != "" {
				out[prefix] = struct{}{}
			}
		}
		return true
	})
	return out
}

func prefixFromName(name string) string {
	if name == "" {
		return ""
	}
	if name == "xmlns" || strings.HasPrefix(name, "xmlns:") {
		return ""
	}
	if idx := strings.IndexByte(name, ':'); idx > 0 {
		return name[:idx]
	}
	return ""
}

func requiredNamespaceMap(prefixes map[string]struct{}, root *xmlNode) map[string]string {
	declared := namespaceDeclsFromRoot(root)
	required := make(map[string]string)
	for prefix := range prefixes {
		if uri, ok := declared[prefix]; ok {
			required[prefix] = uri
			continue
		}
		if uri, ok := knownNamespaceURIs[prefix]; ok {
			required[prefix] = uri
		}
	}
	if _, ok := required["w"]; !ok {
		required["w"] = wmlNamespace
	}
	if _, ok := required["r"]; !ok {
		required["r"] = relNamespace
	}
	return required
}

var knownNamespaceURIs = map[string]string{
	"w":   wmlNamespace,
	"r":   relNamespace,
	"a":   "http://schemas.openxmlformats.org/drawingml/2006/main",
	"wp":  "http://schemas.openxmlformats.org/drawingml/2006/wordprocessingDrawing",
	"pic": "http://schemas.openxmlformats.org/drawingml/2006/picture",
	"mc":  "http://schemas.openxmlformats.org/markup-compatibility/2006",
	"w14": "http://schemas.microsoft.com/office/word/2010/wordml",
	"w15": "http://schemas.microsoft.com/office/word/2012/wordml",
}

func ensureRootHasNamespaces(rootStart string, required map[string]string) string {
	if len(required) == 0 || rootStart == "" {
		return rootStart
	}
	existing := namespacesFromRootStart(rootStart)
	missing := make([]string, 0, len(required))
	for prefix, uri := range required {
		if current, ok := existing[prefix]; ok && current == uri {
			continue
		}
		if uri != "" {
			missing = append(missing, prefix)
		}
	}
	if len(missing) == 0 {
		return rootStart
	}
	sort.Strings(missing)
	var builder strings.Builder
	for _, prefix := range missing {
		uri := required[prefix]
		if prefix == "" {
			builder.WriteString(" xmlns=\"")
			builder.WriteString(uri)
			builder.WriteString("\"")
			continue
		}
		builder.WriteString(" xmlns:")
		builder.WriteString(prefix)
		builder.WriteString("=\"")
		builder.WriteString(uri)
		builder.WriteString("\"")
	}
	insert := builder.String()
	if insert == "" {
		return rootStart
	}
	if idx := strings.LastIndex(rootStart, "/>"); idx != -1 && idx == len(rootStart)-2 {
		return rootStart[:idx] + insert + rootStart[idx:]
	}
	if idx := strings.LastIndex(rootStart, ">"); idx != -1 {
		return rootStart[:idx] + insert + rootStart[idx:]
	}
	return rootStart
}

var xmlnsAttrPattern = regexp.MustCompile(`\s+xmlns(?::([A-Za-z0-9._-]+))?="([^"]+)"`)

func namespacesFromRootStart(rootStart string) map[string]string {
	out := make(map[string]string)
	matches := xmlnsAttrPattern.FindAllStringSubmatch(rootStart, -1)
	for _, match := range matches {
		prefix := ""
		if len(match) > 1 {
			prefix = match[1]
		}
		if len(match) > 2 {
			out[prefix] = match[2]
		}
	}
	return out
}

func extractRootTags(xmlText string) (string, string, error) {
	startIdx, endIdx, name, err := findRootStartTag(xmlText)
	if err != nil {
		return "", "", err
	}
	rootStart := xmlText[startIdx : endIdx+1]
	endTag := "</" + name + ">"
	endPos := strings.LastIndex(xmlText, endTag)
	if endPos == -1 {
		return "", "", errors.New("root end tag not found")
	}
	rootEnd := xmlText[endPos : endPos+len(endTag)]
	return rootStart, rootEnd, nil
}

func findRootStartTag(xmlText string) (int, int, string, error) {
	i := 0
	for i < len(xmlText) {
		idx := strings.IndexByte(xmlText[i:], '<')
		if idx == -1 {
			return 0, 0, "", errors.New("root start tag not found")
		}
		i += idx
		if strings.HasPrefix(xmlText[i:], "<?") {
			end := strings.Index(xmlText[i:], "?>")
			if end == -1 {
				return 0, 0, "", errors.New("xml header not terminated")
			}
			i += end + 2
			continue
		}
		if strings.HasPrefix(xmlText[i:], "<!--") {
			end := strings.Index(xmlText[i:], "-->")
			if end == -1 {
				return 0, 0, "", errors.New("xml comment not terminated")
			}
			i += end + 3
			continue
		}
		if strings.HasPrefix(xmlText[i:], "<!") {
			end := strings.IndexByte(xmlText[i:], '>')
			if end == -1 {
				return 0, 0, "", errors.New("doctype not terminated")
			}
			i += end + 1
			continue
		}
		break
	}
	start := i
	inQuote := byte(0)
	for i = start + 1; i < len(xmlText); i++ {
		c := xmlText[i]
		if inQuote != 0 {
			if c == inQuote {
				inQuote = 0
			}
			continue
		}
		if c == '"' || c == '\'' {
			inQuote = c
			continue
		}
		if c == '>' {
			name := rootTagName(xmlText[start+1 : i])
			if name == "" {
				return 0, 0, "", errors.New("root tag name missing")
			}
			return start, i, name, nil
		}
	}
	return 0, 0, "", errors.New("root start tag not terminated")
}

func rootTagName(raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" || raw[0] == '/' {
		return ""
	}
	end := len(raw)
	for i := 0; i < len(raw); i++ {
		if raw[i] == ' ' || raw[i] == '\t' || raw[i] == '\n' || raw[i] == '\r' || raw[i] == '/' {
			end = i
			break
		}
	}
	return raw[:end]
}

func applyPrefixMap(node *xmlNode, prefixes map[string]string) {
	if node == nil || len(prefixes) == 0 {
		return
	}
	if !node.IsText {
		if prefix, ok := prefixes[node.Name.Space]; ok && prefix != "" {
			node.Name.Local = prefix + ":" + node.Name.Local
			node.Name.Space = ""
		}
		for i, attr := range node.Attr {
			if attr.Name.Space == "xmlns" || (attr.Name.Space == "" && attr.Name.Local == "xmlns") || (attr.Name.Space == "" && strings.HasPrefix(attr.Name.Local, "xmlns:")) {
				continue
			}
			if prefix, ok := prefixes[attr.Name.Space]; ok && prefix != "" {
				attr.Name.Local = prefix + ":" + attr.Name.Local
				attr.Name.Space = ""
				node.Attr[i] = attr
			}
		}
	}
	for _, child := range node.Children {
		applyPrefixMap(child, prefixes)
	}
}
