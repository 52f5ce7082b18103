package index

import (
	"fmt"

	"github.com/vmihailenco/msgpack/v5"

	"traitres/internal/project"
	"traitres/internal/types"
)

// declRecord is the canonical form of one declaration inside the digest.
// Rendered strings are enough: they change whenever anything selection can
// observe changes.
type declRecord struct {
	Kind   string   `msgpack:"k"`
	ID     uint32   `msgpack:"id"`
	Name   string   `msgpack:"n,omitempty"`
	Path   string   `msgpack:"p,omitempty"`
	Lang   string   `msgpack:"l,omitempty"`
	Params []string `msgpack:"tp,omitempty"`
	Body   []string `msgpack:"b,omitempty"`
}

// computeDigest hashes each declaration kind separately and combines the
// section digests in a fixed order.
func computeDigest(p *Project) (project.Digest, error) {
	traits := make([]declRecord, 0, len(p.traits))
	for _, t := range p.traits {
		rec := declRecord{Kind: "trait", ID: uint32(t.ID), Name: t.Name, Path: t.Path, Lang: t.LangItem}
		rec.Params = paramRecords(t.TypeParams)
		for _, a := range t.AssocTypes {
			rec.Body = append(rec.Body, "type "+a.Name)
		}
		for _, s := range t.SuperTraits {
			rec.Body = append(rec.Body, ": "+s.String())
		}
		traits = append(traits, rec)
	}
	adts := make([]declRecord, 0, len(p.adts))
	for _, a := range p.adts {
		rec := declRecord{Kind: "struct", ID: uint32(a.ID), Name: a.Name, Path: a.Path}
		if a.Enum {
			rec.Kind = "enum"
		}
		rec.Params = paramRecords(a.TypeParams)
		for _, d := range a.Derives {
			rec.Body = append(rec.Body, "derive "+d.Path)
		}
		adts = append(adts, rec)
	}
	impls := make([]declRecord, 0, len(p.impls))
	for _, impl := range p.impls {
		rec := declRecord{Kind: "impl", ID: uint32(impl.ID), Name: impl.String()}
		rec.Params = paramRecords(impl.TypeParams)
		for _, a := range impl.AssocTypes {
			ty := "_"
			if a.Type != nil {
				ty = a.Type.String()
			}
			rec.Body = append(rec.Body, "type "+a.Name+" = "+ty)
		}
		for _, w := range impl.Where {
			rec.Body = append(rec.Body, "where "+w.String())
		}
		impls = append(impls, rec)
	}

	var sections [3]project.Digest
	for i, records := range [][]declRecord{traits, adts, impls} {
		data, err := msgpack.Marshal(records)
		if err != nil {
			return project.Digest{}, fmt.Errorf("encode declarations: %w", err)
		}
		sections[i] = project.Sum(data)
	}
	return project.Combine(project.Sum([]byte(p.name)), sections[:]...), nil
}

func paramRecords(decls []*types.TypeParamDecl) []string {
	if len(decls) == 0 {
		return nil
	}
	out := make([]string, len(decls))
	for i, d := range decls {
		s := d.Name
		for _, b := range d.Bounds() {
			s += ": " + b.String()
		}
		if d.Default != nil {
			s += " = " + d.Default.String()
		}
		out[i] = s
	}
	return out
}
