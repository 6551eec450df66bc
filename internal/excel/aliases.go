package excel

import (
	"errors"
	"sort"
	"strings"
	"unicode"
)

// Kind names a spreadsheet template shape.
type Kind string

const (
	KindClient        Kind = "clients"
	KindKeyword       Kind = "keywords"
	KindCompetitor    Kind = "competitors"
	KindGlobalKeyword Kind = "global_keywords"
)

// ErrUnknownTemplate is returned for a kind with no template.
var ErrUnknownTemplate = errors.New("unknown template kind")

// ParseKind accepts the plural kind names and their singular forms.
func ParseKind(s string) (Kind, error) {
	switch foldHeader(s) {
	case "clients", "client":
		return KindClient, nil
	case "keywords", "keyword":
		return KindKeyword, nil
	case "competitors", "competitor":
		return KindCompetitor, nil
	case "globalkeywords", "globalkeyword":
		return KindGlobalKeyword, nil
	}
	return "", ErrUnknownTemplate
}

// field is a canonical column and the other header spellings accepted for it.
// Spellings are compared after folding, so "business_name", "Business Name"
// and "businessName" need not be listed separately.
type field struct {
	name    string
	aliases []string
}

var fieldTable = map[Kind][]field{
	KindClient: {
		{"business_name", []string{"name", "company", "company_name", "client", "client_name", "business"}},
		{"category", []string{"industry", "business_category", "niche"}},
		{"city", []string{"town"}},
		{"state", []string{"region", "province"}},
		{"website", []string{"url", "site", "domain", "web"}},
		{"phone", []string{"phone_number", "telephone", "tel"}},
		{"email", []string{"email_address", "e_mail"}},
		{"avg_job_value", []string{"average_job_value", "avg_job_size", "job_value", "avg_ticket"}},
		{"conversion_rate", []string{"conv_rate", "conversion", "close_rate"}},
		{"visibility_score", []string{"score", "gmb_score", "visibility"}},
	},
	KindKeyword: {
		{"keyword", []string{"keyword_text", "search_term", "term", "query"}},
		{"search_volume", []string{"volume", "monthly_searches", "monthly_search_volume", "searches", "avg_monthly_searches"}},
		{"current_rank", []string{"rank", "position", "current_position", "ranking"}},
		{"target_rank", []string{"target", "target_position", "goal_rank"}},
		{"cpc", []string{"cost_per_click", "bid", "top_of_page_bid"}},
		{"difficulty", []string{"keyword_difficulty", "kd", "difficulty_score"}},
		{"category", []string{"industry", "niche"}},
		{"city", []string{"town"}},
		{"state", []string{"region", "province"}},
		{"competitor1_rank", []string{"competitor_1_rank", "comp1_rank", "competitor1"}},
		{"competitor2_rank", []string{"competitor_2_rank", "comp2_rank", "competitor2"}},
		{"competitor3_rank", []string{"competitor_3_rank", "comp3_rank", "competitor3"}},
	},
	KindCompetitor: {
		{"keyword", []string{"keyword_text", "search_term", "term"}},
		{"competitor_name", []string{"name", "competitor", "gmb_name", "business_name", "entity_name"}},
		{"rank", []string{"position", "current_rank", "ranking"}},
		{"traffic_share", []string{"traffic", "traffic_percent", "share"}},
		{"is_my_business", []string{"my_business", "mine", "is_mine", "is_client"}},
		{"rating", []string{"stars", "star_rating", "avg_rating"}},
		{"review_count", []string{"reviews", "num_reviews", "total_reviews"}},
		{"website", []string{"url", "domain", "site"}},
	},
	KindGlobalKeyword: {
		{"keyword", []string{"keyword_text", "search_term", "term"}},
		{"category", []string{"industry", "niche", "business_category"}},
		{"search_volume", []string{"volume", "monthly_searches", "searches"}},
		{"cpc", []string{"cost_per_click", "bid"}},
		{"difficulty", []string{"keyword_difficulty", "kd"}},
	},
}

// Fields returns the canonical column names for a kind, in template order.
func Fields(kind Kind) []string {
	fields := fieldTable[kind]
	names := make([]string, len(fields))
	for i, f := range fields {
		names[i] = f.name
	}
	return names
}

// foldHeader lowercases and drops everything but letters and digits.
func foldHeader(h string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(h) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// Normalize maps a row keyed by raw header text onto canonical field names.
// For each field the canonical spelling is tried first, then aliases in order;
// the first non-blank value wins. Unknown headers are dropped.
func Normalize(kind Kind, values map[string]string) map[string]string {
	headers := make([]string, 0, len(values))
	for h := range values {
		headers = append(headers, h)
	}
	sort.Strings(headers)

	folded := make(map[string]string, len(values))
	for _, h := range headers {
		key := foldHeader(h)
		v := strings.TrimSpace(values[h])
		if existing, ok := folded[key]; ok && existing != "" {
			continue
		}
		folded[key] = v
	}

	out := make(map[string]string, len(fieldTable[kind]))
	for _, f := range fieldTable[kind] {
		candidates := append([]string{f.name}, f.aliases...)
		for _, c := range candidates {
			if v := folded[foldHeader(c)]; v != "" {
				out[f.name] = v
				break
			}
		}
	}
	return out
}
