// Copyright 2024 The Liquid Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package builtin

import (
	"strconv"
	"strings"
	"time"

	"github.com/liquidgo/liquid/native"
)

// timeLayouts are the layouts tried, in order, to parse a string as a time.
var timeLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02 15:04:05 -0700",
	"2006-01-02 15:04:05 -07:00",
	"2006-01-02 15:04:05 MST",
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04",
	"2006-01-02",
	time.RFC1123Z,
	time.RFC1123,
	time.RFC850,
	time.ANSIC,
	time.UnixDate,
	"January 2, 2006 15:04:05",
	"January 2, 2006",
	"Jan 2, 2006",
	"2 January 2006",
	"2 Jan 2006",
	"02 Jan 2006 15:04",
	"2006/01/02",
}

// now returns the current time. It is a variable so that tests can replace
// it.
var now = time.Now

// Date formats a time with a strftime format. The input can be a time, a
// Unix timestamp, a string with a date or "now" and "today". If the input
// is not a time or the format is empty, Date returns the input.
func Date(input interface{}, args []interface{}, kwargs map[string]interface{}) (interface{}, error) {
	if err := arity(args, kwargs, 2, 2); err != nil {
		return nil, err
	}
	format := toString(args[0])
	if format == "" {
		return input, nil
	}
	t, ok := toTime(input)
	if !ok {
		return input, nil
	}
	return strftime(t, format), nil
}

// toTime converts v to a time.
func toTime(v interface{}) (time.Time, bool) {
	switch t := v.(type) {
	case time.Time:
		return t, true
	case *time.Time:
		if t != nil {
			return *t, true
		}
		return time.Time{}, false
	}
	v = native.ToLiquid(v)
	switch native.KindOf(v) {
	case native.KindInt:
		return time.Unix(int64(native.IntValue(v)), 0), true
	case native.KindFloat:
		return time.Unix(int64(native.FloatValue(v)), 0), true
	case native.KindString:
		s := strings.TrimSpace(native.StringValue(v))
		switch strings.ToLower(s) {
		case "":
			return time.Time{}, false
		case "now", "today":
			return now(), true
		}
		if n, err := strconv.ParseInt(s, 10, 64); err == nil {
			return time.Unix(n, 0), true
		}
		for _, layout := range timeLayouts {
			if t, err := time.ParseInLocation(layout, s, time.Local); err == nil {
				return t, true
			}
		}
	}
	return time.Time{}, false
}

// strftime formats t according to format, with the conversions of the
// strftime C function and the flags '-' (no padding), '_' (pad with
// spaces), '0' (pad with zeros) and '^' (upper case), followed by an
// optional width.
func strftime(t time.Time, format string) string {
	var b strings.Builder
	for i := 0; i < len(format); i++ {
		c := format[i]
		if c != '%' || i+1 == len(format) {
			b.WriteByte(c)
			continue
		}
		d := directive{}
		j := i + 1
	Flags:
		for ; j < len(format); j++ {
			switch format[j] {
			case '-', '_', '0':
				d.pad = format[j]
			case '^':
				d.upper = true
			case '#':
			default:
				break Flags
			}
		}
		for ; j < len(format) && '0' <= format[j] && format[j] <= '9'; j++ {
			d.width = d.width*10 + int(format[j]-'0')
		}
		for ; j < len(format) && format[j] == ':'; j++ {
			d.colons++
		}
		if j == len(format) {
			b.WriteString(format[i:])
			break
		}
		s, ok := d.format(t, format[j])
		if !ok {
			s = format[i : j+1]
		}
		b.WriteString(s)
		i = j
	}
	return b.String()
}

// directive is a conversion of a strftime format.
type directive struct {
	pad    byte
	upper  bool
	width  int
	colons int
}

// format returns the conversion verb applied to t. It returns false if verb
// is not a conversion.
func (d directive) format(t time.Time, verb byte) (string, bool) {
	switch verb {
	case 'Y':
		return d.number(t.Year(), 1, '0'), true
	case 'C':
		return d.number(t.Year()/100, 2, '0'), true
	case 'y':
		return d.number(t.Year()%100, 2, '0'), true
	case 'm':
		return d.number(int(t.Month()), 2, '0'), true
	case 'B':
		return d.text(t.Month().String()), true
	case 'b', 'h':
		return d.text(t.Month().String()[:3]), true
	case 'd':
		return d.number(t.Day(), 2, '0'), true
	case 'e':
		return d.number(t.Day(), 2, ' '), true
	case 'j':
		return d.number(t.YearDay(), 3, '0'), true
	case 'H':
		return d.number(t.Hour(), 2, '0'), true
	case 'k':
		return d.number(t.Hour(), 2, ' '), true
	case 'I':
		return d.number(hour12(t), 2, '0'), true
	case 'l':
		return d.number(hour12(t), 2, ' '), true
	case 'M':
		return d.number(t.Minute(), 2, '0'), true
	case 'S':
		return d.number(t.Second(), 2, '0'), true
	case 'L':
		return d.number(t.Nanosecond()/1e6, 3, '0'), true
	case 'N':
		digits := strconv.Itoa(1e9 + t.Nanosecond())[1:]
		if d.width > 0 && d.width < 9 {
			digits = digits[:d.width]
		}
		return digits, true
	case 'p':
		if t.Hour() < 12 {
			return d.text("AM"), true
		}
		return d.text("PM"), true
	case 'P':
		if t.Hour() < 12 {
			return d.text("am"), true
		}
		return d.text("pm"), true
	case 'A':
		return d.text(t.Weekday().String()), true
	case 'a':
		return d.text(t.Weekday().String()[:3]), true
	case 'u':
		wd := int(t.Weekday())
		if wd == 0 {
			wd = 7
		}
		return d.number(wd, 1, '0'), true
	case 'w':
		return d.number(int(t.Weekday()), 1, '0'), true
	case 'U':
		return d.number((t.YearDay()+6-int(t.Weekday()))/7, 2, '0'), true
	case 'W':
		return d.number((t.YearDay()+6-(int(t.Weekday())+6)%7)/7, 2, '0'), true
	case 'G':
		year, _ := t.ISOWeek()
		return d.number(year, 1, '0'), true
	case 'V':
		_, week := t.ISOWeek()
		return d.number(week, 2, '0'), true
	case 's':
		return d.text(strconv.FormatInt(t.Unix(), 10)), true
	case 'z':
		return d.text(zoneOffset(t, d.colons)), true
	case 'Z':
		name, _ := t.Zone()
		return d.text(name), true
	case 'c':
		return d.text(strftime(t, "%a %b %e %H:%M:%S %Y")), true
	case 'D', 'x':
		return d.text(strftime(t, "%m/%d/%y")), true
	case 'F':
		return d.text(strftime(t, "%Y-%m-%d")), true
	case 'T', 'X':
		return d.text(strftime(t, "%H:%M:%S")), true
	case 'R':
		return d.text(strftime(t, "%H:%M")), true
	case 'r':
		return d.text(strftime(t, "%I:%M:%S %p")), true
	case 'v':
		return d.text(strftime(t, "%e-%^b-%Y")), true
	case 'n':
		return "\n", true
	case 't':
		return "\t", true
	case '%':
		return "%", true
	}
	return "", false
}

// number formats n with the given default width and padding character.
func (d directive) number(n int, width int, pad byte) string {
	switch d.pad {
	case '-':
		return strconv.Itoa(n)
	case '_':
		pad = ' '
	case '0':
		pad = '0'
	}
	if d.width > 0 {
		width = d.width
	}
	s := strconv.Itoa(n)
	neg := n < 0
	if neg {
		s = s[1:]
		width--
	}
	if len(s) < width {
		s = strings.Repeat(string(pad), width-len(s)) + s
	}
	if neg {
		s = "-" + s
	}
	return s
}

// text formats s padding it with spaces to the width of the directive.
func (d directive) text(s string) string {
	if d.upper {
		s = strings.ToUpper(s)
	}
	if n := d.width - len(s); n > 0 && d.pad != '-' {
		pad := " "
		if d.pad == '0' {
			pad = "0"
		}
		s = strings.Repeat(pad, n) + s
	}
	return s
}

func hour12(t time.Time) int {
	h := t.Hour() % 12
	if h == 0 {
		h = 12
	}
	return h
}

// zoneOffset returns the offset of the zone of t as "+hhmm", or "+hh:mm"
// with one colon and "+hh:mm:ss" with two colons.
func zoneOffset(t time.Time, colons int) string {
	_, offset := t.Zone()
	sign := byte('+')
	if offset < 0 {
		sign = '-'
		offset = -offset
	}
	h, m, s := offset/3600, offset/60%60, offset%60
	two := func(n int) string { return string([]byte{byte('0' + n/10), byte('0' + n%10)}) }
	switch colons {
	case 0:
		return string(sign) + two(h) + two(m)
	case 1:
		return string(sign) + two(h) + ":" + two(m)
	}
	return string(sign) + two(h) + ":" + two(m) + ":" + two(s)
}
