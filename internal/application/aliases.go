package application

import (
	"fmt"
	"os"
	"sort"

	"gopkg.in/yaml.v3"

	"github.com/jmanzanog/ticker-lens/internal/domain"
)

// AliasTable maps a normalized company or asset name to its ticker.
type AliasTable map[string]domain.TickerSymbol

var defaultAliases = map[string]string{
	"삼성전자":                "005930.KS",
	"SAMSUNG ELECTRONICS": "005930.KS",
	"SAMSUNG":             "005930.KS",
	"SK하이닉스":              "000660.KS",
	"SK HYNIX":            "000660.KS",
	"현대차":                 "005380.KS",
	"현대자동차":               "005380.KS",
	"HYUNDAI MOTOR":       "005380.KS",
	"네이버":                 "035420.KS",
	"NAVER":               "035420.KS",
	"카카오":                 "035720.KS",
	"KAKAO":               "035720.KS",
	"셀트리온":                "068270.KS",
	"CELLTRION":           "068270.KS",
	"LG에너지솔루션":            "373220.KS",
	"LG ENERGY SOLUTION":  "373220.KS",
	"에코프로":                "086520.KQ",
	"ECOPRO":              "086520.KQ",
	"엔비디아":                "NVDA",
	"NVIDIA":              "NVDA",
	"애플":                  "AAPL",
	"APPLE":               "AAPL",
	"테슬라":                 "TSLA",
	"TESLA":               "TSLA",
	"마이크로소프트":             "MSFT",
	"MICROSOFT":           "MSFT",
	"구글":                  "GOOGL",
	"알파벳":                 "GOOGL",
	"GOOGLE":              "GOOGL",
	"ALPHABET":            "GOOGL",
	"아마존":                 "AMZN",
	"AMAZON":              "AMZN",
	"메타":                  "META",
	"페이스북":                "META",
	"FACEBOOK":            "META",
	"비트코인":                "BTC-USD",
	"BITCOIN":             "BTC-USD",
	"이더리움":                "ETH-USD",
	"ETHEREUM":            "ETH-USD",
}

// DefaultAliases returns a fresh copy of the built-in table.
func DefaultAliases() AliasTable {
	t := make(AliasTable, len(defaultAliases))
	for name, symbol := range defaultAliases {
		t[domain.NormalizeQuery(name)] = domain.TickerSymbol(symbol)
	}
	return t
}

// Merge adds or overrides entries from other, normalizing its keys.
func (t AliasTable) Merge(other map[string]string) {
	for name, symbol := range other {
		key := domain.NormalizeQuery(name)
		if key == "" || symbol == "" {
			continue
		}
		t[key] = domain.TickerSymbol(symbol)
	}
}

// Names returns the alias keys in sorted order.
func (t AliasTable) Names() []string {
	names := make([]string, 0, len(t))
	for name := range t {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

type aliasFile struct {
	Aliases map[string]string `yaml:"aliases"`
}

// LoadAliasFile reads extra aliases from a YAML file of the form
//
//	aliases:
//	  포스코홀딩스: 005490.KS
//	  palantir: PLTR
//
// and merges them over the defaults.
func LoadAliasFile(path string) (AliasTable, error) {
	table := DefaultAliases()
	if path == "" {
		return table, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read alias file: %w", err)
	}

	var file aliasFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parse alias file: %w", err)
	}

	table.Merge(file.Aliases)
	return table, nil
}
