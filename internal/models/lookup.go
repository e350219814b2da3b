package models

import (
	"strings"
	"time"
)

// Language is one of the codes the multilingual reference tables carry a column for.
type Language string

const (
	LanguageEnglish    Language = "en"
	LanguagePunjabi    Language = "pa"
	LanguageBagri      Language = "bgc_in"
	LanguageHindi      Language = "hi"
	LanguageRajasthani Language = "raj_in"
)

var SupportedLanguages = []Language{
	LanguageEnglish,
	LanguagePunjabi,
	LanguageBagri,
	LanguageHindi,
	LanguageRajasthani,
}

// ParseLanguage returns the supported language for code, or false.
func ParseLanguage(code string) (Language, bool) {
	code = strings.TrimSpace(code)
	for _, l := range SupportedLanguages {
		if string(l) == code {
			return l, true
		}
	}
	return "", false
}

// LocalizedNames holds one name per supported language.
type LocalizedNames struct {
	En    string `json:"name_en"`
	Pa    string `json:"name_pa"`
	BgcIn string `json:"name_bgc_in"`
	Hi    string `json:"name_hi"`
	RajIn string `json:"name_raj_in"`
}

// Complete reports whether every language has a non-blank name.
func (n LocalizedNames) Complete() bool {
	for _, l := range SupportedLanguages {
		if strings.TrimSpace(n.Get(l)) == "" {
			return false
		}
	}
	return true
}

func (n LocalizedNames) Get(l Language) string {
	switch l {
	case LanguageEnglish:
		return n.En
	case LanguagePunjabi:
		return n.Pa
	case LanguageBagri:
		return n.BgcIn
	case LanguageHindi:
		return n.Hi
	case LanguageRajasthani:
		return n.RajIn
	}
	return ""
}

// LookupEntry is a row of one of the multilingual reference tables
// (crop types, harvesters, transport arrangements, land size units).
type LookupEntry struct {
	ID        uint
	Names     LocalizedNames
	Status    Status
	CreatedAt time.Time
	UpdatedAt time.Time
}

// LocalizedEntry is a lookup entry projected onto a single language.
type LocalizedEntry struct {
	ID   uint   `json:"id"`
	Name string `json:"name"`
}

type VideoTutorial struct {
	ID           uint
	VideoURL     string
	LanguageCode string
	Status       Status
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
