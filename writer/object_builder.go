package writer

import (
	"fmt"
	"strings"
	"time"

	"docforge/ir/raw"
	"docforge/ir/semantic"
)

const defaultProducer = "docforge"

// objectBuilder converts a semantic document into numbered raw objects.
type objectBuilder struct {
	doc     *semantic.Document
	cfg     Config
	objects map[raw.ObjectRef]raw.Object
	nextNum int
	// fonts are deduplicated document-wide by base font + encoding.
	fontRefs map[string]raw.ObjectRef
}

func newObjectBuilder(doc *semantic.Document, cfg Config) *objectBuilder {
	return &objectBuilder{
		doc:      doc,
		cfg:      cfg,
		objects:  make(map[raw.ObjectRef]raw.Object),
		nextNum:  1,
		fontRefs: make(map[string]raw.ObjectRef),
	}
}

func (b *objectBuilder) nextRef() raw.ObjectRef {
	ref := raw.ObjectRef{Num: b.nextNum}
	b.nextNum++
	return ref
}

// build returns the object table plus the catalog and optional info refs.
func (b *objectBuilder) build() (map[raw.ObjectRef]raw.Object, raw.ObjectRef, *raw.ObjectRef, error) {
	catalogRef := b.nextRef()
	pagesRef := b.nextRef()

	infoRef := b.buildInfo()

	pageRefs := make([]raw.ObjectRef, 0, len(b.doc.Pages))
	for _, p := range b.doc.Pages {
		contentRef, err := b.buildContent(p)
		if err != nil {
			return nil, raw.ObjectRef{}, nil, err
		}

		ref := b.nextRef()
		pageRefs = append(pageRefs, ref)

		pageDict := raw.Dict()
		pageDict.Set(raw.NameLiteral("Type"), raw.NameLiteral("Page"))
		pageDict.Set(raw.NameLiteral("Parent"), raw.Ref(pagesRef.Num, pagesRef.Gen))
		pageDict.Set(raw.NameLiteral("MediaBox"), rectArray(p.MediaBox))
		pageDict.Set(raw.NameLiteral("Resources"), b.buildResources(p.Resources))
		pageDict.Set(raw.NameLiteral("Contents"), raw.Ref(contentRef.Num, contentRef.Gen))
		if len(p.Annotations) > 0 {
			pageDict.Set(raw.NameLiteral("Annots"), b.buildAnnotations(p))
		}
		b.objects[ref] = pageDict
	}

	kids := raw.NewArray()
	for _, r := range pageRefs {
		kids.Append(raw.Ref(r.Num, r.Gen))
	}
	pagesDict := raw.Dict()
	pagesDict.Set(raw.NameLiteral("Type"), raw.NameLiteral("Pages"))
	pagesDict.Set(raw.NameLiteral("Count"), raw.NumberInt(int64(len(pageRefs))))
	pagesDict.Set(raw.NameLiteral("Kids"), kids)
	b.objects[pagesRef] = pagesDict

	catalogDict := raw.Dict()
	catalogDict.Set(raw.NameLiteral("Type"), raw.NameLiteral("Catalog"))
	catalogDict.Set(raw.NameLiteral("Pages"), raw.Ref(pagesRef.Num, pagesRef.Gen))
	b.objects[catalogRef] = catalogDict

	return b.objects, catalogRef, infoRef, nil
}

func (b *objectBuilder) buildInfo() *raw.ObjectRef {
	info := b.doc.Info
	if info == nil {
		info = &semantic.DocumentInfo{}
	}
	dict := raw.Dict()
	if info.Title != "" {
		dict.Set(raw.NameLiteral("Title"), raw.Str([]byte(info.Title)))
	}
	if info.Author != "" {
		dict.Set(raw.NameLiteral("Author"), raw.Str([]byte(info.Author)))
	}
	if info.Subject != "" {
		dict.Set(raw.NameLiteral("Subject"), raw.Str([]byte(info.Subject)))
	}
	if info.Creator != "" {
		dict.Set(raw.NameLiteral("Creator"), raw.Str([]byte(info.Creator)))
	}
	if len(info.Keywords) > 0 {
		dict.Set(raw.NameLiteral("Keywords"), raw.Str([]byte(strings.Join(info.Keywords, ","))))
	}
	producer := b.cfg.Producer
	if producer == "" {
		producer = defaultProducer
	}
	dict.Set(raw.NameLiteral("Producer"), raw.Str([]byte(producer)))
	if !b.cfg.Deterministic {
		date := info.CreationDate
		if date.IsZero() {
			date = time.Now()
		}
		dict.Set(raw.NameLiteral("CreationDate"), raw.Str([]byte(pdfDate(date))))
	}
	ref := b.nextRef()
	b.objects[ref] = dict
	return &ref
}

func (b *objectBuilder) buildContent(p *semantic.Page) (raw.ObjectRef, error) {
	var data []byte
	for _, cs := range p.Contents {
		data = append(data, serializeContentStream(cs)...)
	}
	dict := raw.Dict()
	if b.cfg.ContentFilter == FilterFlate {
		encoded, err := flateEncode(data)
		if err != nil {
			return raw.ObjectRef{}, fmt.Errorf("writer: flate encode: %w", err)
		}
		data = encoded
		dict.Set(raw.NameLiteral("Filter"), raw.NameLiteral("FlateDecode"))
	}
	dict.Set(raw.NameLiteral("Length"), raw.NumberInt(int64(len(data))))
	ref := b.nextRef()
	b.objects[ref] = raw.NewStream(dict, data)
	return ref, nil
}

func (b *objectBuilder) buildResources(res *semantic.Resources) *raw.DictObj {
	dict := raw.Dict()
	fontDict := raw.Dict()
	if res != nil && len(res.Fonts) > 0 {
		for _, name := range sortedFontNames(res.Fonts) {
			fRef := b.ensureFont(res.Fonts[name])
			fontDict.Set(raw.NameLiteral(name), raw.Ref(fRef.Num, fRef.Gen))
		}
	} else {
		fRef := b.ensureFont(nil)
		fontDict.Set(raw.NameLiteral("F1"), raw.Ref(fRef.Num, fRef.Gen))
	}
	dict.Set(raw.NameLiteral("Font"), fontDict)

	if res != nil && len(res.ExtGStates) > 0 {
		gsDict := raw.Dict()
		for _, name := range sortedGStateNames(res.ExtGStates) {
			gs := res.ExtGStates[name]
			entry := raw.Dict()
			if gs.FillAlpha != nil {
				entry.Set(raw.NameLiteral("ca"), raw.NumberFloat(*gs.FillAlpha))
			}
			if gs.StrokeAlpha != nil {
				entry.Set(raw.NameLiteral("CA"), raw.NumberFloat(*gs.StrokeAlpha))
			}
			gsDict.Set(raw.NameLiteral(name), entry)
		}
		dict.Set(raw.NameLiteral("ExtGState"), gsDict)
	}

	if res != nil && len(res.XObjects) > 0 {
		xDict := raw.Dict()
		for _, name := range sortedXObjectNames(res.XObjects) {
			xRef := b.buildXObject(res.XObjects[name])
			xDict.Set(raw.NameLiteral(name), raw.Ref(xRef.Num, xRef.Gen))
		}
		dict.Set(raw.NameLiteral("XObject"), xDict)
	}

	procs := raw.NewArray(raw.NameLiteral("PDF"), raw.NameLiteral("Text"), raw.NameLiteral("ImageC"))
	dict.Set(raw.NameLiteral("ProcSet"), procs)
	return dict
}

func (b *objectBuilder) ensureFont(font *semantic.Font) raw.ObjectRef {
	base := "Helvetica"
	encoding := ""
	subtype := "Type1"
	if font != nil {
		if font.BaseFont != "" {
			base = font.BaseFont
		}
		encoding = font.Encoding
		if font.Subtype != "" {
			subtype = font.Subtype
		}
	}
	key := base + "/" + encoding + "/" + subtype
	if ref, ok := b.fontRefs[key]; ok {
		return ref
	}
	ref := b.nextRef()
	dict := raw.Dict()
	dict.Set(raw.NameLiteral("Type"), raw.NameLiteral("Font"))
	dict.Set(raw.NameLiteral("Subtype"), raw.NameLiteral(subtype))
	dict.Set(raw.NameLiteral("BaseFont"), raw.NameLiteral(base))
	if encoding != "" {
		dict.Set(raw.NameLiteral("Encoding"), raw.NameLiteral(encoding))
	}
	if font != nil && len(font.Widths) > 0 {
		first, last, widths := encodeWidths(font.Widths)
		dict.Set(raw.NameLiteral("FirstChar"), raw.NumberInt(int64(first)))
		dict.Set(raw.NameLiteral("LastChar"), raw.NumberInt(int64(last)))
		dict.Set(raw.NameLiteral("Widths"), widths)
	}
	b.objects[ref] = dict
	b.fontRefs[key] = ref
	return ref
}

func (b *objectBuilder) buildXObject(xo semantic.XObject) raw.ObjectRef {
	ref := b.nextRef()
	dict := raw.Dict()
	dict.Set(raw.NameLiteral("Type"), raw.NameLiteral("XObject"))
	dict.Set(raw.NameLiteral("Subtype"), raw.NameLiteral("Image"))
	dict.Set(raw.NameLiteral("Width"), raw.NumberInt(int64(xo.Width)))
	dict.Set(raw.NameLiteral("Height"), raw.NumberInt(int64(xo.Height)))
	csName := "DeviceRGB"
	if xo.ColorSpace != nil && xo.ColorSpace.ColorSpaceName() != "" {
		csName = xo.ColorSpace.ColorSpaceName()
	}
	dict.Set(raw.NameLiteral("ColorSpace"), raw.NameLiteral(csName))
	bpc := xo.BitsPerComponent
	if bpc == 0 {
		bpc = 8
	}
	dict.Set(raw.NameLiteral("BitsPerComponent"), raw.NumberInt(int64(bpc)))
	if xo.Filter != "" {
		dict.Set(raw.NameLiteral("Filter"), raw.NameLiteral(xo.Filter))
	}
	if xo.Interpolate {
		dict.Set(raw.NameLiteral("Interpolate"), raw.Bool(true))
	}
	if xo.SMask != nil {
		smRef := b.buildXObject(*xo.SMask)
		dict.Set(raw.NameLiteral("SMask"), raw.Ref(smRef.Num, smRef.Gen))
	}
	dict.Set(raw.NameLiteral("Length"), raw.NumberInt(int64(len(xo.Data))))
	b.objects[ref] = raw.NewStream(dict, xo.Data)
	return ref
}

func (b *objectBuilder) buildAnnotations(p *semantic.Page) *raw.ArrayObj {
	arr := raw.NewArray()
	for _, a := range p.Annotations {
		ref := b.nextRef()
		dict := raw.Dict()
		dict.Set(raw.NameLiteral("Type"), raw.NameLiteral("Annot"))

		base := a.Base()
		subtype := base.Subtype
		if subtype == "" {
			subtype = "Link"
		}
		dict.Set(raw.NameLiteral("Subtype"), raw.NameLiteral(subtype))
		dict.Set(raw.NameLiteral("Rect"), rectArray(base.RectVal))

		if link, ok := a.(*semantic.LinkAnnotation); ok && link.Action != nil {
			var target string
			switch uri := link.Action.(type) {
			case semantic.URIAction:
				target = uri.URI
			case *semantic.URIAction:
				target = uri.URI
			}
			if target != "" {
				action := raw.Dict()
				action.Set(raw.NameLiteral("S"), raw.NameLiteral("URI"))
				action.Set(raw.NameLiteral("URI"), raw.Str([]byte(target)))
				dict.Set(raw.NameLiteral("A"), action)
			}
		} else if base.Contents != "" {
			dict.Set(raw.NameLiteral("Contents"), raw.Str([]byte(base.Contents)))
		}
		if base.Flags != 0 {
			dict.Set(raw.NameLiteral("F"), raw.NumberInt(int64(base.Flags)))
		}
		if len(base.Border) == 3 {
			dict.Set(raw.NameLiteral("Border"), raw.NewArray(
				raw.NumberFloat(base.Border[0]), raw.NumberFloat(base.Border[1]), raw.NumberFloat(base.Border[2])))
		} else {
			dict.Set(raw.NameLiteral("Border"), raw.NewArray(
				raw.NumberInt(0), raw.NumberInt(0), raw.NumberInt(0)))
		}
		b.objects[ref] = dict
		arr.Append(raw.Ref(ref.Num, ref.Gen))
	}
	return arr
}

func pdfDate(t time.Time) string {
	return t.UTC().Format("D:20060102150405Z")
}
