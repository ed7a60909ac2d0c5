package extractor

import (
	"bytes"
)

// AnnotationInfo summarizes one link annotation.
type AnnotationInfo struct {
	Subtype string
	Rect    [4]float64
	URI     string
}

// ExtractAnnotations returns every link annotation in the document, in
// object order. The text layer is never consulted.
func (e *Extractor) ExtractAnnotations() ([]AnnotationInfo, error) {
	var annots []AnnotationInfo
	for _, obj := range e.objects() {
		if !bytes.Contains(obj, []byte("/Subtype /Link")) {
			continue
		}
		info := AnnotationInfo{Subtype: "Link"}
		info.URI = uriFromObject(obj)
		info.Rect = rectFromObject(obj)
		annots = append(annots, info)
	}
	return annots, nil
}

// objects splits the file into indirect object bodies.
func (e *Extractor) objects() [][]byte {
	var out [][]byte
	data := e.data
	pos := 0
	for {
		i := bytes.Index(data[pos:], []byte(" obj"))
		if i < 0 {
			return out
		}
		start := pos + i + len(" obj")
		end := bytes.Index(data[start:], []byte("endobj"))
		if end < 0 {
			return out
		}
		out = append(out, data[start:start+end])
		pos = start + end + len("endobj")
	}
}

func uriFromObject(obj []byte) string {
	i := bytes.Index(obj, []byte("/URI"))
	if i < 0 {
		return ""
	}
	open := bytes.IndexByte(obj[i:], '(')
	if open < 0 {
		return ""
	}
	uri, _, ok := readLiteralString(obj, i+open)
	if !ok {
		return ""
	}
	return uri
}

func rectFromObject(obj []byte) [4]float64 {
	var rect [4]float64
	i := bytes.Index(obj, []byte("/Rect"))
	if i < 0 {
		return rect
	}
	open := bytes.IndexByte(obj[i:], '[')
	end := bytes.IndexByte(obj[i:], ']')
	if open < 0 || end < 0 || end < open {
		return rect
	}
	fields := bytes.Fields(obj[i+open+1 : i+end])
	for j := 0; j < len(fields) && j < 4; j++ {
		if v, ok := parseFloat(fields[j]); ok {
			rect[j] = v
		}
	}
	return rect
}
