package utils

import (
	"fmt"
	"strings"

	"github.com/elliotchance/orderedmap/v2"
)

// OrderedMapToString formats an ordered key/value payload as "[k1=v1 k2=v2]", keeping insertion order.
func OrderedMapToString(data *orderedmap.OrderedMap[string, any]) string {
	if data == nil || data.Len() == 0 {
		return "[]"
	}

	var sb strings.Builder
	sb.WriteByte('[')
	for el := data.Front(); el != nil; el = el.Next() {
		if el != data.Front() {
			sb.WriteByte(' ')
		}
		sb.WriteString(fmt.Sprintf("%s=%v", el.Key, el.Value))
	}
	sb.WriteByte(']')
	return sb.String()
}
