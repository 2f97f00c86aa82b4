package agenda

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormatTime(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"13:30", "1:30 PM"},
		{"00:00", "12:00 AM"},
		{"12:00", "12:00 PM"},
		{"9:05", "9:05 AM"},
		{"23:59:59", "11:59 PM"},
		{"", ""},
		{"1899-12-30T13:30:00.000Z", "1:30 PM"},
		{"2025-12-25T08:15:00+03:00", "8:15 AM"},
		{"TBD", "TBD"},
		{"noon", "noon"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, FormatTime(tt.in))
		})
	}
}

func TestFormatDate(t *testing.T) {
	tests := []struct {
		in    string
		want  string
		short string
	}{
		{"2025-12-25", "Dec 25, 2025", "Dec 25"},
		{"2025-01-05T10:00:00Z", "Jan 5, 2025", "Jan 5"},
		{"", "", ""},
		{"someday", "someday", "someday"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, FormatDate(tt.in))
			assert.Equal(t, tt.short, FormatShortDate(tt.in))
		})
	}
}

func TestDriveDirectLink(t *testing.T) {
	const id = "1AbCdEfGhIjKlMnOpQrStUvWxYz_-12"
	const want = "https://drive.google.com/thumbnail?id=" + id + "&sz=w1500"

	tests := []struct {
		name string
		in   string
		want string
	}{
		{"file view link", "https://drive.google.com/file/d/" + id + "/view?usp=sharing", want},
		{"open id link", "https://drive.google.com/open?id=" + id, want},
		{"uc link", "https://drive.google.com/uc?export=view&id=" + id, want},
		{"docs link", "https://docs.google.com/d/" + id + "/edit", want},
		{"not drive", "https://example.com/d/" + id, "https://example.com/d/" + id},
		{"id too short", "https://drive.google.com/file/d/short/view", "https://drive.google.com/file/d/short/view"},
		{"empty", "", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, DriveDirectLink(tt.in))
		})
	}
}

func TestShareURL(t *testing.T) {
	assert.Equal(t, "https://agenda.example.com/#/agenda/ev-1", ShareURL("https://agenda.example.com", "ev-1"))
	assert.Equal(t, "https://agenda.example.com/#/agenda/ev-1", ShareURL("https://agenda.example.com/", "ev-1"))
}

func TestTimeOptions(t *testing.T) {
	opts := TimeOptions()
	require.Len(t, opts, 48)
	assert.Equal(t, "00:00", opts[0])
	assert.Equal(t, "00:30", opts[1])
	assert.Equal(t, "13:30", opts[27])
	assert.Equal(t, "23:30", opts[47])
}

func TestLocalizer(t *testing.T) {
	tests := []struct {
		locale string
		lang   string
		rtl    bool
		want   string
	}{
		{"en", "en", false, "Agenda not found"},
		{"ar", "ar", true, "الأجندة غير موجودة"},
		{"ar-EG", "ar", true, "الأجندة غير موجودة"},
		{"", "en", false, "Agenda not found"},
		{"xx-invalid-!", "en", false, "Agenda not found"},
	}
	for _, tt := range tests {
		t.Run(tt.locale, func(t *testing.T) {
			l := NewLocalizer(tt.locale)
			assert.Equal(t, tt.lang, l.Language())
			assert.Equal(t, tt.rtl, l.RTL())
			assert.Equal(t, tt.want, l.Sprintf(MsgNotFound))
		})
	}

	assert.Equal(t, "Could not save your change: boom", NewLocalizer("en").Sprintf(MsgSaveFailed, "boom"))
	assert.Equal(t, "تعذر حفظ التغيير: boom", NewLocalizer("ar").Sprintf(MsgSaveFailed, "boom"))
}
