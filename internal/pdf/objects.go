package pdf

import (
	"fmt"

	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/types"

	"github.com/kpauljoseph/pdfexplorer/pkg/models"
)

// summarizeObjects lists in-use xref entries in object number order.
// The returned count covers every in-use entry even when the list is capped.
func summarizeObjects(xRefTable *model.XRefTable, limit int) ([]models.ObjectSummary, int) {
	var (
		summaries []models.ObjectSummary
		count     int
	)

	for _, n := range sortedObjectNumbers(xRefTable.Table) {
		entry := xRefTable.Table[n]
		if entry == nil || entry.Free {
			continue
		}
		count++
		if len(summaries) >= limit {
			continue
		}

		summary := models.ObjectSummary{
			Number:     n,
			Kind:       objectKind(entry.Object),
			Type:       dictType(entry.Object),
			Compressed: entry.Compressed,
		}
		if entry.Generation != nil {
			summary.Generation = *entry.Generation
		}
		if entry.Offset != nil && !entry.Compressed {
			summary.Offset = *entry.Offset
		}
		if entry.ObjectStream != nil {
			summary.ObjectStream = *entry.ObjectStream
		}
		summaries = append(summaries, summary)
	}

	return summaries, count
}

func objectKind(obj types.Object) string {
	switch obj.(type) {
	case nil:
		return "null"
	case types.StreamDict:
		return "stream"
	case types.Dict:
		return "dict"
	case types.Array:
		return "array"
	case types.Name:
		return "name"
	case types.StringLiteral, types.HexLiteral:
		return "string"
	case types.Integer:
		return "integer"
	case types.Float:
		return "real"
	case types.Boolean:
		return "boolean"
	case types.IndirectRef:
		return "reference"
	default:
		return "other"
	}
}

func dictType(obj types.Object) string {
	var t *string
	switch o := obj.(type) {
	case types.Dict:
		t = o.Type()
	case types.StreamDict:
		t = o.Dict.Type()
	}
	if t == nil {
		return ""
	}
	return *t
}

func trailerInfo(pdfCtx *model.Context) models.TrailerInfo {
	x := pdfCtx.XRefTable
	info := models.TrailerInfo{
		HasID:     len(x.ID) > 0,
		Encrypted: x.Encrypt != nil,
	}
	info.Root = refString(x.Root)
	info.Info = refString(x.Info)
	if x.Size != nil {
		info.Size = *x.Size
	}
	return info
}

// refString formats ref the way it appears in a PDF body, e.g. "1 0 R".
func refString(ref *types.IndirectRef) string {
	if ref == nil {
		return ""
	}
	return fmt.Sprintf("%d %d R", ref.ObjectNumber, ref.GenerationNumber)
}
