package render

import (
	"fmt"
	"html/template"
	"net/url"
	"strconv"
	"strings"
	"time"

	"internship-portal/internal/ui"
)

func templateFuncs(now func() time.Time) template.FuncMap {
	return template.FuncMap{
		"timeAgo": func(v interface{}) string {
			switch t := v.(type) {
			case time.Time:
				return ui.TimeAgo(now(), t)
			case *time.Time:
				if t == nil {
					return ""
				}
				return ui.TimeAgo(now(), *t)
			}
			return ""
		},
		"statusColor": func(v interface{}) string { return ui.StatusColor(toString(v)) },
		"statusLabel": func(v interface{}) string { return ui.StatusLabel(toString(v)) },
		"salary":      ui.FormatSalary,
		"date": func(v interface{}) string {
			switch t := v.(type) {
			case time.Time:
				return ui.FormatDate(t)
			case *time.Time:
				return ui.FormatDatePtr(t)
			}
			return ""
		},
		"dateInput": func(t *time.Time) string {
			if t == nil {
				return ""
			}
			return t.Format("2006-01-02")
		},
		"pageURL": pageURL,
		"join":    strings.Join,
		"list":    func(items ...string) []string { return items },
		"dict":    dict,
		"initial": ui.Initial,
		"field": func(errs map[string]string, name string) string {
			return errs[name]
		},
	}
}

// pageURL returns path with the query's page parameter replaced by page.
func pageURL(path string, query url.Values, page int) string {
	q := url.Values{}
	for k, v := range query {
		q[k] = append([]string(nil), v...)
	}
	q.Set("page", strconv.Itoa(page))
	return path + "?" + q.Encode()
}

// dict builds a map from alternating keys and values so a partial can take
// more than one argument.
func dict(pairs ...interface{}) (map[string]interface{}, error) {
	if len(pairs)%2 != 0 {
		return nil, fmt.Errorf("dict: odd number of arguments")
	}
	m := make(map[string]interface{}, len(pairs)/2)
	for i := 0; i < len(pairs); i += 2 {
		key, ok := pairs[i].(string)
		if !ok {
			return nil, fmt.Errorf("dict: key %v is not a string", pairs[i])
		}
		m[key] = pairs[i+1]
	}
	return m, nil
}

// toString accepts plain strings and the named status string types.
func toString(v interface{}) string {
	if v == nil {
		return ""
	}
	return fmt.Sprint(v)
}
