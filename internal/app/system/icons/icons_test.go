package icons

import "testing"

func TestParse(t *testing.T) {
	tests := []struct {
		set     Set
		name    string
		want    Icon
		wantErr bool
	}{
		{SectorIcons, "wheat", Wheat, false},
		{SectorIcons, "  Wheat ", Wheat, false},
		{SectorIcons, "graduation-cap", GraduationCap, false},
		{SectorIcons, "users", "", true}, // statistic icon, not a sector icon
		{StatisticIcons, "users", Users, false},
		{StatisticIcons, "unicorn", "", true},
		{SectorIcons, "", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Parse(tt.set, tt.name)
			if (err != nil) != tt.wantErr {
				t.Fatalf("Parse(%q) error = %v, wantErr %v", tt.name, err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("Parse(%q) = %q, want %q", tt.name, got, tt.want)
			}
		})
	}
}

func TestAll_EveryIconHasLabel(t *testing.T) {
	for _, set := range []Set{SectorIcons, StatisticIcons} {
		all := All(set)
		if len(all) == 0 {
			t.Fatalf("set %d is empty", set)
		}
		for i, icon := range all {
			if Label(set, icon) == "" {
				t.Errorf("icon %q has no label", icon)
			}
			if i > 0 && all[i-1] >= icon {
				t.Errorf("All not sorted at %d", i)
			}
		}
	}
}
