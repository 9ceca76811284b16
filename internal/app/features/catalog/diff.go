// internal/app/features/catalog/diff.go
package catalog

import (
	"fmt"

	"github.com/dalemusser/campushub/internal/domain/models"
)

// DiffFields returns the entries of edited whose values differ from
// original. Keys missing from original count as changed.
func DiffFields(original, edited map[string]any) map[string]any {
	out := make(map[string]any)
	for k, v := range edited {
		if ov, ok := original[k]; ok && fmt.Sprint(ov) == fmt.Sprint(v) {
			continue
		}
		out[k] = v
	}
	return out
}

// updateBody is what an edit sends: only changed fields for diff-mode
// kinds, every editable field otherwise.
func updateBody(k models.Kind, original, edited form) map[string]any {
	if k.EditMode == models.EditDiff {
		return DiffFields(original.fields(), edited.fields())
	}
	return edited.fields()
}
