package cache

import "testing"

func TestKeyFor(t *testing.T) {
	tests := []struct {
		name      string
		utterance string
		want      Key
	}{
		{
			name:      "lowercase passthrough",
			utterance: "chek order",
			want:      Key("chek order"),
		},
		{
			name:      "case and spacing fold into one slot",
			utterance: "  Chek   ORDER ",
			want:      Key("chek order"),
		},
		{
			name:      "diacritics fold into one slot",
			utterance: "Où est ma commande",
			want:      Key("ou est ma commande"),
		},
		{
			name:      "empty utterance",
			utterance: "",
			want:      Key(""),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := KeyFor(tt.utterance); got != tt.want {
				t.Errorf("KeyFor(%q) = %q, want %q", tt.utterance, got, tt.want)
			}
		})
	}
}

func TestKeyForEquivalence(t *testing.T) {
	variants := []string{
		"check order status",
		"Check Order Status",
		"CHECK   ORDER   STATUS",
		"chéck ördér statüs",
	}

	want := KeyFor(variants[0])
	for _, v := range variants[1:] {
		if got := KeyFor(v); got != want {
			t.Errorf("KeyFor(%q) = %q, want %q (variants must share a slot)", v, got, want)
		}
	}
}
