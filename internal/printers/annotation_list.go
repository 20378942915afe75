package printers

import (
	"atatf/internal/atatf"
	"atatf/internal/decoder"
)

// AnnotationList is an in-memory annotation sink. It keeps the log in
// arrival order.
type AnnotationList struct {
	items []decoder.Annotation
}

// NewAnnotationList creates an empty list.
func NewAnnotationList() *AnnotationList {
	return &AnnotationList{}
}

// AnnotationIn implements decoder.AnnotationSink.
func (l *AnnotationList) AnnotationIn(a decoder.Annotation) atatf.DatapathResp {
	l.items = append(l.items, a)
	return atatf.RespCont
}

// Items returns the collected annotations. The slice is shared with the
// list.
func (l *AnnotationList) Items() []decoder.Annotation { return l.items }

// Len returns the number of collected annotations.
func (l *AnnotationList) Len() int { return len(l.items) }

// Reset empties the list.
func (l *AnnotationList) Reset() { l.items = l.items[:0] }

// Category returns the annotations in cats, in order.
func (l *AnnotationList) Category(cats ...decoder.Category) []decoder.Annotation {
	var out []decoder.Annotation
	for _, a := range l.items {
		for _, c := range cats {
			if a.Category == c {
				out = append(out, a)
				break
			}
		}
	}
	return out
}

// Replay sends the collected annotations to sink, stopping at the first
// fatal response.
func (l *AnnotationList) Replay(sink decoder.AnnotationSink) atatf.DatapathResp {
	for _, a := range l.items {
		if resp := sink.AnnotationIn(a); atatf.DataRespIsFatal(resp) {
			return resp
		}
	}
	return atatf.RespCont
}
