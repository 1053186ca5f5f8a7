package emit

import (
	"bufio"
	"io"
	"strconv"

	"contractc/internal/spec"
)

// WriteText renders holder items followed by their annotated item:
//
//	#[spec_only]
//	#[spec_id = "…"]
//	#[assertion = "…"]
//	fn prusti_requires_item_f_…() {
//	    #[spec_only]
//	    #[expr_id = "…_101"]
//	    || -> bool { a };
//	}
//
//	#[requires_spec_id_ref = "…"]
//	fn f;
func WriteText(w io.Writer, b *Bundle) error {
	bw := bufio.NewWriter(w)
	first := true
	sep := func() {
		if !first {
			bw.WriteByte('\n')
		}
		first = false
	}

	for _, it := range b.Items {
		for _, s := range it.Specs {
			if s.Holder == nil {
				continue
			}
			sep()
			writeHolder(bw, s.Holder)
		}
		sep()
		writeMarkers(bw, "", it.Markers)
		bw.WriteString(it.Kind + " " + it.Name + ";\n")
	}
	return bw.Flush()
}

func writeHolder(bw *bufio.Writer, h *spec.HolderItem) {
	writeMarkers(bw, "", h.Markers)
	bw.WriteString("fn " + h.Name + "() {\n")
	for _, th := range h.Body {
		writeMarkers(bw, "    ", th.Markers)
		bw.WriteString("    || -> bool { " + th.Code + " };\n")
	}
	bw.WriteString("}\n")
}

func writeMarkers(bw *bufio.Writer, indent string, ms spec.Markers) {
	for _, m := range ms {
		bw.WriteString(indent + "#[" + m.Name)
		if m.Value != "" {
			bw.WriteString(" = " + strconv.Quote(m.Value))
		}
		bw.WriteString("]\n")
	}
}
