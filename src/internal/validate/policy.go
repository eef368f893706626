package validate

import (
	"bufio"
	"os"
	"strings"

	"github.com/blocklistproject/blocklist-builder/src/internal/merge"
	"github.com/blocklistproject/blocklist-builder/src/internal/utils"
)

var genericTLDs = []string{
	"com", "net", "org", "info", "biz", "name", "pro", "aero", "asia",
	"cat", "coop", "edu", "gov", "int", "jobs", "mil", "mobi", "museum",
	"tel", "travel", "xxx", "app", "dev", "io", "co", "ai", "me", "tv",
	"fm", "ws", "cc", "to", "ly", "gl", "gg", "vc", "sh", "la", "pw",
	"club", "online", "site", "store", "tech", "top", "xyz", "work",
	"live", "life", "link", "click", "help", "news", "blog", "one",
	"shop", "world", "zone", "space", "today", "email", "network",
	"download", "bid", "review", "stream", "win", "racing", "date",
	"trade", "science", "party", "faith", "cricket", "webcam", "loan",
	"accountant", "men", "gdn", "fun", "vip", "wang", "icu",
}

var countryTLDs = []string{
	"ac", "ad", "ae", "af", "ag", "al", "am", "ao", "aq", "ar", "as",
	"at", "au", "aw", "ax", "az", "ba", "bb", "bd", "be", "bf", "bg",
	"bh", "bi", "bj", "bm", "bn", "bo", "br", "bs", "bt", "bv", "bw",
	"by", "bz", "ca", "cd", "cf", "cg", "ch", "ci", "ck", "cl", "cm",
	"cn", "co", "cr", "cu", "cv", "cw", "cx", "cy", "cz", "de", "dj",
	"dk", "dm", "do", "dz", "ec", "ee", "eg", "er", "es", "et", "eu",
	"fi", "fj", "fk", "fm", "fo", "fr", "ga", "gb", "gd", "ge", "gf",
	"gg", "gh", "gi", "gl", "gm", "gn", "gp", "gq", "gr", "gs", "gt",
	"gu", "gw", "gy", "hk", "hm", "hn", "hr", "ht", "hu", "id", "ie",
	"il", "im", "in", "io", "iq", "ir", "is", "it", "je", "jm", "jo",
	"jp", "ke", "kg", "kh", "ki", "km", "kn", "kp", "kr", "kw", "ky",
	"kz", "la", "lb", "lc", "li", "lk", "lr", "ls", "lt", "lu", "lv",
	"ly", "ma", "mc", "md", "me", "mg", "mh", "mk", "ml", "mm", "mn",
	"mo", "mp", "mq", "mr", "ms", "mt", "mu", "mv", "mw", "mx", "my",
	"mz", "na", "nc", "ne", "nf", "ng", "ni", "nl", "no", "np", "nr",
	"nu", "nz", "om", "pa", "pe", "pf", "pg", "ph", "pk", "pl", "pm",
	"pn", "pr", "ps", "pt", "pw", "py", "qa", "re", "ro", "rs", "ru",
	"rw", "sa", "sb", "sc", "sd", "se", "sg", "sh", "si", "sj", "sk",
	"sl", "sm", "sn", "so", "sr", "ss", "st", "su", "sv", "sx", "sy",
	"sz", "tc", "td", "tf", "tg", "th", "tj", "tk", "tl", "tm", "tn",
	"to", "tr", "tt", "tv", "tw", "tz", "ua", "ug", "uk", "us", "uy",
	"uz", "va", "vc", "ve", "vg", "vi", "vn", "vu", "wf", "ws", "ye",
	"yt", "za", "zm", "zw",
}

var criticalDomains = []string{
	// OS updates
	"windowsupdate.com",
	"update.microsoft.com",
	"download.windowsupdate.com",
	"apple.com",
	"swscan.apple.com",
	"swcdn.apple.com",
	"itunes.apple.com",
	"appldnld.apple.com",
	"swdist.apple.com",
	"updates.cdn-apple.com",

	// Certificates
	"ocsp.digicert.com",
	"ocsp.comodoca.com",
	"ocsp.globalsign.com",
	"ocsp.usertrust.com",
	"ocsp.entrust.com",
	"crl.microsoft.com",
	"www.microsoft.com",
	"microsoft.com",

	// Platforms
	"google.com",
	"www.google.com",
	"googleapis.com",
	"gstatic.com",
	"github.com",
	"githubusercontent.com",
	"raw.githubusercontent.com",

	// Payments
	"paypal.com",
	"www.paypal.com",

	// Identity
	"login.microsoftonline.com",
	"login.live.com",
	"accounts.google.com",
	"oauth.net",
}

var falsePositives = []string{
	"localhost",
	"localhost.localdomain",
	"local",
	"broadcasthost",
	"ip6-localhost",
	"ip6-loopback",
	"ip6-localnet",
	"ip6-mcastprefix",
	"ip6-allnodes",
	"ip6-allrouters",
}

var builtinTLDs = DefaultPolicy().TLDs

// Policy holds the reference tables used by the TLD, critical and
// false-positive checks.
type Policy struct {
	TLDs           merge.Set
	Critical       merge.Set
	FalsePositives merge.Set
}

// DefaultPolicy returns a copy of the built-in tables.
func DefaultPolicy() *Policy {
	tlds := merge.NewSet(genericTLDs...)
	for _, tld := range countryTLDs {
		tlds.Add(tld)
	}

	return &Policy{
		TLDs:           tlds,
		Critical:       merge.NewSet(criticalDomains...),
		FalsePositives: merge.NewSet(falsePositives...),
	}
}

// WithCritical returns a copy of p whose critical set also contains extra.
func (p *Policy) WithCritical(extra merge.Set) *Policy {
	return &Policy{
		TLDs:           p.TLDs,
		Critical:       merge.Union(p.Critical, extra),
		FalsePositives: p.FalsePositives,
	}
}

// IsCritical reports whether domain or one of its parents is protected.
func (p *Policy) IsCritical(domain string) bool {
	d := strings.ToLower(domain)
	for {
		if p.Critical.Has(d) {
			return true
		}
		idx := strings.IndexByte(d, '.')
		if idx < 0 {
			return false
		}
		d = d[idx+1:]
	}
}

func (p *Policy) IsFalsePositive(domain string) bool {
	return p.FalsePositives.Has(domain)
}

// LoadCriticalDomains reads one domain per line, skipping blank lines and
// # comments. A missing file yields an empty set.
func LoadCriticalDomains(path string) (merge.Set, error) {
	domains := make(merge.Set)

	file, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return domains, nil
		}
		return nil, err
	}
	defer utils.CloseOrWarn(file)

	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		domains.Add(line)
	}
	return domains, scanner.Err()
}
