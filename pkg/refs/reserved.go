package refs

import "strings"

// reservedProperties are entity property names that can never be a
// logical name, checked case-insensitively against candidates.
var reservedProperties = map[string]struct{}{
	"properties":          {},
	"type":                {},
	"metadata":            {},
	"dependson":           {},
	"condition":           {},
	"version":             {},
	"description":         {},
	"policies":            {},
	"creationpolicy":      {},
	"updatepolicy":        {},
	"updatereplacepolicy": {},
	"deletionpolicy":      {},
}

// pseudoValues are built-in values the platform injects; they are
// never user-defined logical names.
var pseudoValues = map[string]struct{}{
	"AWS::Region":           {},
	"AWS::AccountId":        {},
	"AWS::NoValue":          {},
	"AWS::Partition":        {},
	"AWS::StackId":          {},
	"AWS::StackName":        {},
	"AWS::URLSuffix":        {},
	"AWS::NotificationARNs": {},
}

func isReservedProperty(name string) bool {
	_, ok := reservedProperties[strings.ToLower(name)]
	return ok
}

func isPseudoValue(name string) bool {
	_, ok := pseudoValues[name]
	return ok
}
