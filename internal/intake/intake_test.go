package intake

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_Empty(t *testing.T) {
	s := New()

	assert.Nil(t, s.File)
	assert.Empty(t, s.Preview)
	assert.Empty(t, s.Notes)
	assert.Equal(t, PatientInfo{}, s.Patient)
	assert.Empty(t, s.SelectedSlots())
}

func TestSetFile_ClearsPreview(t *testing.T) {
	s := New()
	s.File = &Attachment{Name: "scan.png", MimeType: "image/png"}
	s.Preview = "thumbnail"

	s.SetFile(&Attachment{Name: "summary.pdf", MimeType: "application/pdf"})

	require.NotNil(t, s.File)
	assert.Equal(t, "summary.pdf", s.File.Name)
	assert.Empty(t, s.Preview, "preview of the previous file must not survive replacement")
}

func TestSetFile_NilClearsBoth(t *testing.T) {
	s := New()
	s.SetFile(&Attachment{Name: "scan.png", MimeType: "image/png"})
	s.SetPreview("scan.png", "thumbnail")

	s.SetFile(nil)

	assert.Nil(t, s.File)
	assert.Empty(t, s.Preview)
}

func TestSetFile_PreservesOtherFields(t *testing.T) {
	s := New()
	s.SetNotes("knee pain on extension")
	s.SetPatientField(FieldAge, "32")
	s.ToggleSlot(SlotCatalog[0])

	s.SetFile(&Attachment{Name: "summary.pdf", MimeType: "application/pdf"})

	assert.Equal(t, "knee pain on extension", s.Notes)
	assert.Equal(t, "32", s.Patient.Age)
	assert.Equal(t, []string{SlotCatalog[0]}, s.SelectedSlots())
}

func TestSetPreview_OnlyForCurrentImageFile(t *testing.T) {
	tests := []struct {
		name     string
		file     *Attachment
		forName  string
		expected string
	}{
		{
			name:     "matching image file",
			file:     &Attachment{Name: "scan.png", MimeType: "image/png"},
			forName:  "scan.png",
			expected: "thumbnail",
		},
		{
			name:     "stale preview for replaced file",
			file:     &Attachment{Name: "other.png", MimeType: "image/png"},
			forName:  "scan.png",
			expected: "",
		},
		{
			name:     "non-image file never gets a preview",
			file:     &Attachment{Name: "summary.pdf", MimeType: "application/pdf"},
			forName:  "summary.pdf",
			expected: "",
		},
		{
			name:     "no file selected",
			file:     nil,
			forName:  "scan.png",
			expected: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := New()
			s.File = tt.file

			s.SetPreview(tt.forName, "thumbnail")

			assert.Equal(t, tt.expected, s.Preview)
		})
	}
}

func TestSetPatientField(t *testing.T) {
	s := New()

	s.SetPatientField(FieldAge, "32")
	s.SetPatientField(FieldGender, "Male")
	s.SetPatientField(FieldSurgeryDate, "2024-01-15")
	s.SetPatientField(FieldConditions, "Diabetes")
	s.SetPatientField("unknown", "ignored")

	assert.Equal(t, PatientInfo{
		Age:         "32",
		Gender:      "Male",
		SurgeryDate: "2024-01-15",
		Conditions:  "Diabetes",
	}, s.Patient)
}

func TestSetPatientField_RetainsInvalidInput(t *testing.T) {
	s := New()

	// Validation is deferred to submission time; the field keeps whatever
	// the user typed.
	s.SetPatientField(FieldAge, "-5")

	assert.Equal(t, "-5", s.Patient.Age)
}

func TestToggleSlot(t *testing.T) {
	s := New()

	s.ToggleSlot(SlotCatalog[1])
	s.ToggleSlot(SlotCatalog[3])
	assert.Equal(t, []string{SlotCatalog[1], SlotCatalog[3]}, s.SelectedSlots())

	s.ToggleSlot(SlotCatalog[1])
	assert.Equal(t, []string{SlotCatalog[3]}, s.SelectedSlots())
}

func TestSelectedSlots_CatalogOrder(t *testing.T) {
	s := New()

	// Select in reverse order; output must follow the catalog.
	s.ToggleSlot(SlotCatalog[3])
	s.ToggleSlot(SlotCatalog[2])
	s.ToggleSlot(SlotCatalog[0])

	assert.Equal(t, []string{SlotCatalog[0], SlotCatalog[2], SlotCatalog[3]}, s.SelectedSlots())
}

func TestAttachmentIsImage(t *testing.T) {
	assert.True(t, (&Attachment{MimeType: "image/png"}).IsImage())
	assert.True(t, (&Attachment{MimeType: "image/jpeg"}).IsImage())
	assert.False(t, (&Attachment{MimeType: "application/pdf"}).IsImage())
	assert.False(t, (*Attachment)(nil).IsImage())
}

func TestReset(t *testing.T) {
	s := New()
	s.SetFile(&Attachment{Name: "scan.png", MimeType: "image/png"})
	s.SetPreview("scan.png", "thumbnail")
	s.SetNotes("notes")
	s.SetPatientField(FieldAge, "32")
	s.ToggleSlot(SlotCatalog[0])

	s.Reset()

	assert.Nil(t, s.File)
	assert.Empty(t, s.Preview)
	assert.Empty(t, s.Notes)
	assert.Equal(t, PatientInfo{}, s.Patient)
	assert.Empty(t, s.SelectedSlots())
	// Slots map is usable again after reset.
	s.ToggleSlot(SlotCatalog[0])
	assert.Equal(t, []string{SlotCatalog[0]}, s.SelectedSlots())
}
