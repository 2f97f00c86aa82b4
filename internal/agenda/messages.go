package agenda

import (
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/message/catalog"
)

// Message keys. The English text doubles as the key.
const (
	MsgLoading             = "Patience is beautiful"
	MsgNotFound            = "Agenda not found"
	MsgNoSessions          = "No sessions on this day"
	MsgStale               = "Last refresh failed, showing the agenda from %s"
	MsgSaveFailed          = "Could not save your change: %s"
	MsgStoreUnreachable    = "Could not reach the agenda store"
	MsgConfirmationNeeded  = "This action needs confirmation"
	MsgInvalidInput        = "Please check the form: %s"
	MsgSomethingWentWrong  = "Something went wrong"
	MsgEventMissing        = "Event not found"
	MsgPresenterRolledBack = "Presenter visibility was restored"
)

var supported = []language.Tag{language.English, language.Arabic}

var matcher = language.NewMatcher(supported)

var messages = map[language.Tag]map[string]string{
	language.Arabic: {
		MsgLoading:             "الصبر جميل",
		MsgNotFound:            "الأجندة غير موجودة",
		MsgNoSessions:          "لا توجد جلسات في هذا اليوم",
		MsgStale:               "فشل التحديث الأخير، يتم عرض الأجندة من %s",
		MsgSaveFailed:          "تعذر حفظ التغيير: %s",
		MsgStoreUnreachable:    "تعذر الوصول إلى مخزن الأجندة",
		MsgConfirmationNeeded:  "هذا الإجراء يحتاج إلى تأكيد",
		MsgInvalidInput:        "يرجى مراجعة النموذج: %s",
		MsgSomethingWentWrong:  "حدث خطأ ما",
		MsgEventMissing:        "الفعالية غير موجودة",
		MsgPresenterRolledBack: "تمت استعادة إظهار المقدم",
	},
}

var cat = buildCatalog()

func buildCatalog() catalog.Catalog {
	b := catalog.NewBuilder(catalog.Fallback(language.English))
	for tag, msgs := range messages {
		for key, msg := range msgs {
			if err := b.SetString(tag, key, msg); err != nil {
				panic(err)
			}
		}
	}
	return b
}

// Localizer prints user facing notices in one language.
type Localizer struct {
	tag     language.Tag
	printer *message.Printer
}

// NewLocalizer picks the closest supported language for locale (en or ar),
// falling back to English.
func NewLocalizer(locale string) *Localizer {
	tag := language.English
	if t, err := language.Parse(locale); err == nil {
		_, idx, conf := matcher.Match(t)
		if conf != language.No {
			tag = supported[idx]
		}
	}
	return &Localizer{tag: tag, printer: message.NewPrinter(tag, message.Catalog(cat))}
}

// Language is the base language code in use.
func (l *Localizer) Language() string {
	base, _ := l.tag.Base()
	return base.String()
}

// RTL reports whether the language is written right to left.
func (l *Localizer) RTL() bool {
	return l.tag == language.Arabic
}

func (l *Localizer) Sprintf(key string, args ...any) string {
	return l.printer.Sprintf(key, args...)
}
