package encoder

import (
	"math"
	"strconv"
	"strings"
)

// ShortFloat formats v with one decimal when it is integral and two
// otherwise, rounding the dropped digits.
func ShortFloat(v float32) string {
	_, frac := math.Modf(float64(v))
	prec := 2
	if frac == 0 {
		prec = 1
	}
	return strconv.FormatFloat(float64(v), 'f', prec, 64)
}

type param struct {
	value      string
	defaultVal string
	hasDefault bool
}

// ParamBuffer collects the parameters of one textual record. Parameters
// at the end of the list that equal their default are dropped when the
// buffer is rendered; a parameter without a default stops the trimming.
type ParamBuffer struct {
	params []param
}

func (b *ParamBuffer) AddInt(v int) {
	b.params = append(b.params, param{value: strconv.Itoa(v)})
}

func (b *ParamBuffer) AddIntDefault(v, def int) {
	b.params = append(b.params, param{value: strconv.Itoa(v), defaultVal: strconv.Itoa(def), hasDefault: true})
}

func (b *ParamBuffer) AddFloat(v float32) {
	b.params = append(b.params, param{value: ShortFloat(v)})
}

// AddFloatDefault compares v and def by their formatted text. A value
// with a fraction never matches an integral default.
func (b *ParamBuffer) AddFloatDefault(v, def float32) {
	b.params = append(b.params, param{value: ShortFloat(v), defaultVal: ShortFloat(def), hasDefault: true})
}

func (b *ParamBuffer) AddString(s string) {
	b.params = append(b.params, param{value: s})
}

// Len returns the number of parameters added, trimmed or not.
func (b *ParamBuffer) Len() int { return len(b.params) }

// Values returns the parameters that survive trimming.
func (b *ParamBuffer) Values() []string {
	n := len(b.params)
	for n > 0 && b.params[n-1].hasDefault && b.params[n-1].value == b.params[n-1].defaultVal {
		n--
	}
	out := make([]string, n)
	for i := range out {
		out[i] = b.params[i].value
	}
	return out
}

// String joins the surviving parameters with commas.
func (b *ParamBuffer) String() string {
	return strings.Join(b.Values(), ",")
}
