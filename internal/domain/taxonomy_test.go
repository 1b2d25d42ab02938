package domain

import "testing"

func TestCategoryFor(t *testing.T) {
	cases := []struct {
		subtype Subtype
		want    Category
	}{
		{SubtypeStatusRequest, CategoryProductive},
		{SubtypeSupportRequest, CategoryProductive},
		{SubtypeAttachmentShare, CategoryProductive},
		{SubtypeGeneralQuestion, CategoryProductive},
		{SubtypeGreetingsOrThanks, CategoryUnproductive},
	}

	for _, tc := range cases {
		if got := CategoryFor(tc.subtype); got != tc.want {
			t.Errorf("CategoryFor(%s) = %s, want %s", tc.subtype, got, tc.want)
		}
	}
}

func TestSubtypeValid(t *testing.T) {
	for _, s := range SubtypePreference {
		if !s.Valid() {
			t.Errorf("expected %s to be valid", s)
		}
	}
	if Subtype("spam").Valid() {
		t.Error("unknown subtype reported valid")
	}
}

func TestCategoryValid(t *testing.T) {
	if !CategoryProductive.Valid() || !CategoryUnproductive.Valid() {
		t.Error("known categories reported invalid")
	}
	if Category("Neutro").Valid() {
		t.Error("unknown category reported valid")
	}
}
