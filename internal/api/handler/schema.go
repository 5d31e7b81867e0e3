package handler

import (
	"reflect"
	"strings"
)

// messageResponse is the success envelope of endpoints that return no data.
type messageResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

func okMessage(message string) messageResponse {
	return messageResponse{Success: true, Message: message}
}

// jsonFieldName reports struct fields by their json name in validation
// messages, so clients see "professionalEmail" rather than "ProfessionalEmail".
func jsonFieldName(f reflect.StructField) string {
	name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
	if name == "-" {
		return ""
	}
	if name == "" {
		return f.Name
	}
	return name
}
