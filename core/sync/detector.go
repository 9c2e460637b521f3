package sync

import "github.com/dkasongo/darasa/core/classroom"

// SkewTolerance guards against oscillation from clock-skew noise: pairs
// whose timestamps differ by no more than this are left untouched.
const SkewTolerance int64 = 1000 // millis

// Plan is the change detector's output: two disjoint sets keyed by class.
type Plan struct {
	ToUpload   []classroom.Classroom
	ToDownload []ClassHead
}

func (p Plan) Empty() bool {
	return len(p.ToUpload) == 0 && len(p.ToDownload) == 0
}

// Detect classifies every class as needing upload, download or no action.
// A local class absent remotely, or newer than its remote counterpart by
// more than SkewTolerance, is uploaded; the mirror case is downloaded.
// The whole aggregate is replaced wholesale in the losing direction; there
// is no per-field merge. Local wins when both sides carry the same id with
// timestamps within tolerance of each other.
func Detect(local []classroom.Classroom, remote []ClassHead) Plan {
	remoteIndex := make(map[string]ClassHead, len(remote))
	for _, h := range remote {
		remoteIndex[h.ID] = h
	}
	localIndex := make(map[string]classroom.Classroom, len(local))
	for _, c := range local {
		localIndex[c.ID] = c
	}

	var plan Plan
	for _, c := range local {
		h, ok := remoteIndex[c.ID]
		if !ok || c.UpdatedAt > h.UpdatedAt+SkewTolerance {
			plan.ToUpload = append(plan.ToUpload, c)
		}
	}
	for _, h := range remote {
		c, ok := localIndex[h.ID]
		if !ok || h.UpdatedAt > c.UpdatedAt+SkewTolerance {
			plan.ToDownload = append(plan.ToDownload, h)
		}
	}
	return plan
}
