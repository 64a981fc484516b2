package models

import (
	"reflect"
	"testing"
)

func TestImageCaption(t *testing.T) {
	tests := []struct {
		title string
		n     int
		want  string
	}{
		{"Deluxe Room", 1, "Deluxe Room - Image 1"},
		{"Suite", 12, "Suite - Image 12"},
		{"", 3, " - Image 3"},
	}

	for _, tt := range tests {
		got := ImageCaption(tt.title, tt.n)
		if got != tt.want {
			t.Errorf("ImageCaption(%q, %d) = %q, want %q", tt.title, tt.n, got, tt.want)
		}
	}
}

func TestHotelCategoryImageKeys(t *testing.T) {
	c := &HotelCategory{Images: []GalleryImage{
		{PublicID: "k1"},
		{PublicID: ""},
		{PublicID: "k2"},
	}}

	got := c.ImageKeys()
	want := []string{"k1", "k2"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("ImageKeys() = %v, want %v", got, want)
	}

	empty := (&HotelCategory{}).ImageKeys()
	if len(empty) != 0 {
		t.Errorf("ImageKeys() on empty category = %v, want none", empty)
	}
}

func TestTruncateTiers(t *testing.T) {
	tests := []struct {
		name string
		in   []int
		want []int
	}{
		{"nil", nil, nil},
		{"under limit", []int{1, 2}, []int{1, 2}},
		{"at limit", []int{1, 2, 3, 4}, []int{1, 2, 3, 4}},
		{"over limit keeps first four", []int{7, 6, 5, 4, 3, 2, 1}, []int{7, 6, 5, 4}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := TruncateTiers(tt.in)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("TruncateTiers(%v) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestAdminRequiresCode(t *testing.T) {
	secret := "JBSWY3DPEHPK3PXP"
	tests := []struct {
		name  string
		admin Admin
		want  bool
	}{
		{"no 2fa", Admin{}, false},
		{"secret but not enabled", Admin{TOTPSecret: &secret}, false},
		{"enabled without secret", Admin{TOTPEnabled: true}, false},
		{"enabled", Admin{TOTPSecret: &secret, TOTPEnabled: true}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.admin.RequiresCode(); got != tt.want {
				t.Errorf("RequiresCode() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestGalleryImageIsStandalone(t *testing.T) {
	id := int64(3)
	if !(&GalleryImage{}).IsStandalone() {
		t.Error("expected image without category id to be standalone")
	}
	if (&GalleryImage{CategoryID: &id}).IsStandalone() {
		t.Error("expected image with category id not to be standalone")
	}
}
