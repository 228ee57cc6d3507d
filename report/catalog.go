// Copyright (c) 2019 devblok
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package report

import (
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// Message keys. English is the fallback for any locale without a catalog.
const (
	msgUnableToCreate = "Unable to create VkInstance"
	msgNoDevices      = "No available devices"
	msgNoSuitable     = "Failed to find a suitable GPU"
	msgSelected       = "Selected device: %s"
	msgVendor         = "Vendor ID: %s"
	msgVendorNamed    = "Vendor ID: %s (%s)"
	msgAPIVersion     = "API version: %s (%s)"
	msgMemory         = "%d MiB"
)

var translations = map[language.Tag]map[string]string{
	language.Russian: {
		msgUnableToCreate: "Не удалось создать VkInstance",
		msgNoDevices:      "Нет доступных устройств",
		msgNoSuitable:     "Не удалось найти подходящий GPU",
		msgSelected:       "Выбранное устройство: %s",
		msgVendor:         "ID производителя: %s",
		msgVendorNamed:    "ID производителя: %s (%s)",
		msgAPIVersion:     "Версия API: %s (%s)",
		msgMemory:         "%d МиБ",
	},
}

func init() {
	for tag, messages := range translations {
		for key, msg := range messages {
			if err := message.SetString(tag, key, msg); err != nil {
				panic(err)
			}
		}
	}
}

// ParseLocale parses a BCP 47 tag, an empty string is English
func ParseLocale(s string) (language.Tag, error) {
	if s == "" {
		return language.English, nil
	}
	return language.Parse(s)
}
