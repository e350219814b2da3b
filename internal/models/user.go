package models

import (
	"fmt"
	"strings"
	"time"
)

// DeviceType identifies the client platform a user signed up from.
type DeviceType string

const (
	DeviceIOS     DeviceType = "I"
	DeviceAndroid DeviceType = "A"
	DeviceWeb     DeviceType = "W"
)

// ParseDeviceType accepts the single-letter codes as well as the platform names.
// An empty value defaults to DeviceWeb.
func ParseDeviceType(s string) (DeviceType, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "":
		return DeviceWeb, nil
	case "i", "ios":
		return DeviceIOS, nil
	case "a", "android":
		return DeviceAndroid, nil
	case "w", "web":
		return DeviceWeb, nil
	}
	return "", fmt.Errorf("unknown device type %q", s)
}

// Status is the active/inactive flag shared by users and reference data.
type Status int

const (
	StatusInactive Status = iota
	StatusActive
)

func (s Status) String() string {
	if s == StatusActive {
		return "active"
	}
	return "inactive"
}

// AdminFlag grants access to reference-data mutation endpoints.
type AdminFlag int

const (
	NonAdmin AdminFlag = iota
	Admin
)

type User struct {
	ID           uint
	Phone        string
	DeviceType   DeviceType
	Status       Status
	LanguageCode string
	LanguageName string
	AdminFlag    AdminFlag
	FCMToken     string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

func (u *User) IsAdmin() bool {
	return u.AdminFlag == Admin
}
