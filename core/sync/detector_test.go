package sync

import (
	"testing"

	"github.com/dkasongo/darasa/core/classroom"
)

func class(id string, updatedAt int64) classroom.Classroom {
	return classroom.Classroom{ID: id, Name: "Class " + id, UpdatedAt: updatedAt}
}

func head(id string, updatedAt int64) ClassHead {
	return ClassHead{ID: id, UpdatedAt: updatedAt}
}

func planIDs(p Plan) (up, down []string) {
	for _, c := range p.ToUpload {
		up = append(up, c.ID)
	}
	for _, h := range p.ToDownload {
		down = append(down, h.ID)
	}
	return up, down
}

func sameIDs(got, want []string) bool {
	if len(got) != len(want) {
		return false
	}
	for i := range got {
		if got[i] != want[i] {
			return false
		}
	}
	return true
}

func TestDetect(t *testing.T) {
	tests := []struct {
		name         string
		local        []classroom.Classroom
		remote       []ClassHead
		wantUpload   []string
		wantDownload []string
	}{
		{name: "both empty"},
		{
			name:       "local only",
			local:      []classroom.Classroom{class("a", 100)},
			wantUpload: []string{"a"},
		},
		{
			name:         "remote only",
			remote:       []ClassHead{head("a", 100)},
			wantDownload: []string{"a"},
		},
		{
			name:   "equal timestamps",
			local:  []classroom.Classroom{class("a", 5000)},
			remote: []ClassHead{head("a", 5000)},
		},
		{
			name:   "local newer within tolerance",
			local:  []classroom.Classroom{class("a", 5000 + SkewTolerance)},
			remote: []ClassHead{head("a", 5000)},
		},
		{
			name:   "remote newer within tolerance",
			local:  []classroom.Classroom{class("a", 5000)},
			remote: []ClassHead{head("a", 5000 + SkewTolerance)},
		},
		{
			name:       "local newer past tolerance",
			local:      []classroom.Classroom{class("a", 5000 + SkewTolerance + 1)},
			remote:     []ClassHead{head("a", 5000)},
			wantUpload: []string{"a"},
		},
		{
			name:         "remote newer past tolerance",
			local:        []classroom.Classroom{class("a", 5000)},
			remote:       []ClassHead{head("a", 5000 + SkewTolerance + 1)},
			wantDownload: []string{"a"},
		},
		{
			name:         "mixed directions",
			local:        []classroom.Classroom{class("a", 10000)},
			remote:       []ClassHead{head("a", 500), head("b", 20000)},
			wantUpload:   []string{"a"},
			wantDownload: []string{"b"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			plan := Detect(tt.local, tt.remote)
			up, down := planIDs(plan)
			if !sameIDs(up, tt.wantUpload) {
				t.Errorf("Detect() ToUpload = %v, want %v", up, tt.wantUpload)
			}
			if !sameIDs(down, tt.wantDownload) {
				t.Errorf("Detect() ToDownload = %v, want %v", down, tt.wantDownload)
			}
			if plan.Empty() != (len(tt.wantUpload) == 0 && len(tt.wantDownload) == 0) {
				t.Errorf("Plan.Empty() = %v", plan.Empty())
			}
		})
	}
}

func TestDetect_disjoint(t *testing.T) {
	local := []classroom.Classroom{class("a", 1), class("b", 99999), class("c", 50)}
	remote := []ClassHead{head("a", 99999), head("b", 1), head("c", 50)}

	plan := Detect(local, remote)
	seen := make(map[string]bool)
	for _, c := range plan.ToUpload {
		seen[c.ID] = true
	}
	for _, h := range plan.ToDownload {
		if seen[h.ID] {
			t.Errorf("class %s planned in both directions", h.ID)
		}
	}
}
