package protocol

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/tidwall/gjson"
)

type fieldKind int

const (
	kindString fieldKind = iota
	kindInt
	kindBool
	kindStringList
	kindObject
)

// fieldRule describes one expected member of a JSON object. Optional
// members may be absent or null; required members must be present and
// non-null.
type fieldRule struct {
	name     string
	kind     fieldKind
	required bool
}

var eventRules = []fieldRule{
	{"chat_id", kindString, true},
	{"msg_id", kindString, true},
	{"sender_id", kindString, true},
	{"text", kindString, false},
	{"timestamp", kindInt, true},
	{"is_group", kindBool, true},
	{"group_admins", kindStringList, false},
	{"key", kindObject, true},
}

var deleteKeyRules = []fieldRule{
	{"remoteJid", kindString, true},
	{"id", kindString, true},
	{"participant", kindString, false},
	{"fromMe", kindBool, false},
}

var sendRules = []fieldRule{
	{"to", kindString, true},
	{"text", kindString, true},
	{"mentions", kindStringList, false},
}

var deleteRules = []fieldRule{
	{"key", kindObject, true},
}

var groupRules = []fieldRule{
	{"chat_id", kindString, true},
	{"user_id", kindString, true},
}

// DecodeEvent parses and validates an inbound event body. On failure the
// returned error is a ValidationErrors listing every invalid field.
func DecodeEvent(data []byte) (*InboundEvent, error) {
	root, err := parseObject(data, "body")
	if err != nil {
		return nil, err
	}

	errs := duplicateKeys(root, "")
	if t := root.Get("type"); !t.Exists() {
		errs = append(errs, &ValidationError{Path: "type", Reason: "field required"})
	} else if t.Type != gjson.String || t.Str != EventTypeMessage {
		errs = append(errs, &ValidationError{Path: "type", Reason: fmt.Sprintf("must be %q", EventTypeMessage)})
	}
	errs = append(errs, checkFields(root, "", eventRules)...)
	if key := root.Get("key"); key.IsObject() {
		errs = append(errs, checkFields(key, "key", deleteKeyRules)...)
	}
	if len(errs) > 0 {
		return nil, errs
	}

	return &InboundEvent{
		Type:        EventTypeMessage,
		ChatID:      root.Get("chat_id").Str,
		MsgID:       root.Get("msg_id").Str,
		SenderID:    root.Get("sender_id").Str,
		Text:        root.Get("text").Str,
		Timestamp:   intValue(root.Get("timestamp")),
		IsGroup:     root.Get("is_group").Bool(),
		GroupAdmins: stringList(root.Get("group_admins")),
		Key:         decodeKey(root.Get("key")),
	}, nil
}

// DecodeResponse parses and validates a response body. A missing
// "actions" member decodes as an empty list.
func DecodeResponse(data []byte) (*Response, error) {
	root, err := parseObject(data, "body")
	if err != nil {
		return nil, err
	}
	if errs := duplicateKeys(root, ""); len(errs) > 0 {
		return nil, errs
	}

	resp := NewResponse(nil)
	list := root.Get("actions")
	if !list.Exists() {
		return &resp, nil
	}
	if !list.IsArray() {
		return nil, ValidationErrors{{Path: "actions", Reason: "must be an array"}}
	}

	var errs ValidationErrors
	for i, item := range list.Array() {
		a, itemErrs := decodeAction(item, "actions."+strconv.Itoa(i))
		if len(itemErrs) > 0 {
			errs = append(errs, itemErrs...)
			continue
		}
		resp.Actions = append(resp.Actions, a)
	}
	if len(errs) > 0 {
		return nil, errs
	}
	return &resp, nil
}

// DecodeAction parses and validates a single action object.
func DecodeAction(data []byte) (Action, error) {
	root, err := parseObject(data, "action")
	if err != nil {
		return nil, err
	}
	if errs := duplicateKeys(root, ""); len(errs) > 0 {
		return nil, errs
	}
	a, errs := decodeAction(root, "")
	if len(errs) > 0 {
		return nil, errs
	}
	return a, nil
}

// ValidateActions checks every action in order and reports problems with
// paths rooted at "actions.<index>".
func ValidateActions(actions []Action) error {
	var errs ValidationErrors
	for i, a := range actions {
		prefix := "actions." + strconv.Itoa(i)
		if a == nil {
			errs = append(errs, &ValidationError{Path: prefix, Reason: "action is nil"})
			continue
		}
		if err := a.Validate(); err != nil {
			if es, ok := AsValidation(err); ok {
				errs = append(errs, es.under(prefix)...)
				continue
			}
			errs = append(errs, &ValidationError{Path: prefix, Reason: err.Error()})
		}
	}
	if len(errs) > 0 {
		return errs
	}
	return nil
}

// parseObject rejects anything but a well-formed UTF-8 JSON object.
func parseObject(data []byte, what string) (gjson.Result, error) {
	if !gjson.ValidBytes(data) {
		return gjson.Result{}, ValidationErrors{{Reason: what + " is not valid JSON"}}
	}
	if !utf8.Valid(data) {
		return gjson.Result{}, ValidationErrors{{Reason: what + " is not valid UTF-8"}}
	}
	root := gjson.ParseBytes(data)
	if !root.IsObject() {
		return gjson.Result{}, ValidationErrors{{Reason: what + " must be a JSON object"}}
	}
	return root, nil
}

// duplicateKeys reports members that appear more than once in obj or in
// any object nested below it. gjson resolves such members to the first
// occurrence, so accepting them would hide later values.
func duplicateKeys(obj gjson.Result, prefix string) ValidationErrors {
	var errs ValidationErrors
	switch {
	case obj.IsObject():
		seen := make(map[string]bool)
		obj.ForEach(func(k, v gjson.Result) bool {
			path := joinPath(prefix, k.Str)
			if seen[k.Str] {
				errs = append(errs, &ValidationError{Path: path, Reason: "duplicate field"})
			}
			seen[k.Str] = true
			errs = append(errs, duplicateKeys(v, path)...)
			return true
		})
	case obj.IsArray():
		for i, item := range obj.Array() {
			errs = append(errs, duplicateKeys(item, joinPath(prefix, strconv.Itoa(i)))...)
		}
	}
	return errs
}

func decodeAction(v gjson.Result, path string) (Action, ValidationErrors) {
	if !v.IsObject() {
		return nil, ValidationErrors{{Path: path, Reason: "must be an object"}}
	}
	t := v.Get("type")
	if !t.Exists() {
		return nil, ValidationErrors{{Path: joinPath(path, "type"), Reason: "field required"}}
	}
	if t.Type != gjson.String {
		return nil, ValidationErrors{{Path: joinPath(path, "type"), Reason: "must be a string"}}
	}

	kind := ActionType(t.Str)
	switch {
	case kind == ActionSend:
		if errs := checkFields(v, path, sendRules); len(errs) > 0 {
			return nil, errs
		}
		mentions := stringList(v.Get("mentions"))
		if mentions == nil {
			mentions = []string{}
		}
		return SendAction{To: v.Get("to").Str, Text: v.Get("text").Str, Mentions: mentions}, nil

	case kind == ActionDelete:
		errs := checkFields(v, path, deleteRules)
		if key := v.Get("key"); key.IsObject() {
			errs = append(errs, checkFields(key, joinPath(path, "key"), deleteKeyRules)...)
		}
		if len(errs) > 0 {
			return nil, errs
		}
		return DeleteAction{Key: decodeKey(v.Get("key"))}, nil

	case kind.IsGroupUpdate():
		if errs := checkFields(v, path, groupRules); len(errs) > 0 {
			return nil, errs
		}
		return GroupAction{Kind: kind, ChatID: v.Get("chat_id").Str, UserID: v.Get("user_id").Str}, nil
	}
	return nil, ValidationErrors{unknownType(kind, joinPath(path, "type"))}
}

func checkFields(obj gjson.Result, prefix string, rules []fieldRule) ValidationErrors {
	var errs ValidationErrors
	for _, r := range rules {
		path := joinPath(prefix, r.name)
		v := obj.Get(r.name)
		if !v.Exists() || v.Type == gjson.Null {
			if r.required {
				errs = append(errs, &ValidationError{Path: path, Reason: "field required"})
			}
			continue
		}
		switch r.kind {
		case kindString:
			if v.Type != gjson.String {
				errs = append(errs, &ValidationError{Path: path, Reason: "must be a string"})
			}
		case kindInt:
			if _, ok := integer(v); !ok {
				errs = append(errs, &ValidationError{Path: path, Reason: "must be an integer"})
			}
		case kindBool:
			if !v.IsBool() {
				errs = append(errs, &ValidationError{Path: path, Reason: "must be a boolean"})
			}
		case kindObject:
			if !v.IsObject() {
				errs = append(errs, &ValidationError{Path: path, Reason: "must be an object"})
			}
		case kindStringList:
			if !v.IsArray() {
				errs = append(errs, &ValidationError{Path: path, Reason: "must be an array of strings"})
				continue
			}
			for i, item := range v.Array() {
				if item.Type != gjson.String {
					errs = append(errs, &ValidationError{Path: joinPath(path, strconv.Itoa(i)), Reason: "must be a string"})
				}
			}
		}
	}
	return errs
}

// integer returns v as an int64 when it is a JSON number with no
// fractional part that fits in 64 bits. Integer literals are parsed exactly;
// forms such as 1e3 or 2.0 go through float64, where 2^63 itself is out of
// range.
func integer(v gjson.Result) (int64, bool) {
	if v.Type != gjson.Number {
		return 0, false
	}
	if !strings.ContainsAny(v.Raw, ".eE") {
		n, err := strconv.ParseInt(v.Raw, 10, 64)
		return n, err == nil
	}
	f := v.Num
	if f != math.Trunc(f) || f < math.MinInt64 || f >= math.MaxInt64 {
		return 0, false
	}
	return int64(f), true
}

func intValue(v gjson.Result) int64 {
	n, _ := integer(v)
	return n
}

func stringList(v gjson.Result) []string {
	if !v.IsArray() {
		return nil
	}
	items := v.Array()
	out := make([]string, 0, len(items))
	for _, item := range items {
		out = append(out, item.Str)
	}
	return out
}

func decodeKey(v gjson.Result) DeleteKey {
	key := DeleteKey{
		RemoteJID: v.Get("remoteJid").Str,
		ID:        v.Get("id").Str,
	}
	if p := v.Get("participant"); p.Type == gjson.String {
		s := p.Str
		key.Participant = &s
	}
	if f := v.Get("fromMe"); f.IsBool() {
		b := f.Bool()
		key.FromMe = &b
	}
	return key
}
