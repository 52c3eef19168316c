package wav

import (
	"fmt"

	"github.com/chorus-network/chorus/internal/domain"
)

// Combine concatenates the PCM16 segments at paths, in slice order,
// into a single WAVE file at out. The first segment's spec becomes the
// canonical spec for the whole stream; a later segment whose spec
// differs fails with ErrFormatMismatch before anything is written.
// An empty paths slice is a no-op: no file is created.
func Combine(paths []string, out string) error {
	if len(paths) == 0 {
		return nil
	}

	first, err := ReadFile(paths[0])
	if err != nil {
		return fmt.Errorf("read segment 0: %w", err)
	}
	spec := first.Spec
	samples := first.Samples

	for i, path := range paths[1:] {
		seg, err := ReadFile(path)
		if err != nil {
			return fmt.Errorf("read segment %d: %w", i+1, err)
		}
		if seg.Spec != spec {
			return fmt.Errorf("segment %d (%s): %w: got %+v, want %+v",
				i+1, path, domain.ErrFormatMismatch, seg.Spec, spec)
		}
		samples = append(samples, seg.Samples...)
	}

	if err := WriteFile(out, spec, samples); err != nil {
		return fmt.Errorf("write %s: %w", out, err)
	}
	return nil
}
