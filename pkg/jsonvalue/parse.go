package jsonvalue

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"
)

// Parse decodes text into a Value, preserving object member order and
// number literals. It returns an error describing the first syntax
// problem encountered.
func Parse(text string) (Value, error) {
	dec := json.NewDecoder(strings.NewReader(text))
	dec.UseNumber()

	v, err := parseNext(dec)
	if err != nil {
		if errors.Is(err, io.EOF) {
			return Value{}, errors.New("empty input")
		}
		return Value{}, err
	}

	// Anything after the first value is trailing garbage.
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return Value{}, errors.New("unexpected content after JSON value")
	}

	return v, nil
}

func parseNext(dec *json.Decoder) (Value, error) {
	tok, err := dec.Token()
	if err != nil {
		return Value{}, err
	}
	return parseToken(dec, tok)
}

func parseToken(dec *json.Decoder, tok json.Token) (Value, error) {
	switch t := tok.(type) {
	case json.Delim:
		switch t {
		case '{':
			return parseObject(dec)
		case '[':
			return parseArray(dec)
		default:
			return Value{}, fmt.Errorf("unexpected delimiter %q", t.String())
		}
	case nil:
		return Null(), nil
	case bool:
		return Bool(t), nil
	case json.Number:
		return Number(t), nil
	case string:
		return String(t), nil
	default:
		return Value{}, fmt.Errorf("unexpected token %v", tok)
	}
}

func parseObject(dec *json.Decoder) (Value, error) {
	var members []Member

	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return Value{}, err
		}

		key, ok := keyTok.(string)
		if !ok {
			return Value{}, fmt.Errorf("object key is not a string: %v", keyTok)
		}

		val, err := parseNext(dec)
		if err != nil {
			return Value{}, err
		}

		members = append(members, Member{Key: key, Value: val})
	}

	// Consume the closing brace.
	if _, err := dec.Token(); err != nil {
		return Value{}, err
	}

	return Object(members...), nil
}

func parseArray(dec *json.Decoder) (Value, error) {
	var elems []Value

	for dec.More() {
		v, err := parseNext(dec)
		if err != nil {
			return Value{}, err
		}
		elems = append(elems, v)
	}

	// Consume the closing bracket.
	if _, err := dec.Token(); err != nil {
		return Value{}, err
	}

	return Array(elems...), nil
}
