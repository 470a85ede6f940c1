package generator

import (
	"fmt"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"github.com/willfong/restaurant-datagen/internal/data"
	"github.com/willfong/restaurant-datagen/internal/utils"
)

// Faker builds pt-BR names, contacts and addresses from the embedded
// vocabulary. It holds no mutable state; all randomness comes from the
// caller's rng, so one Faker is shared by every worker.
type Faker struct {
	vocab *data.Vocabulary
}

// NewFaker wraps a loaded vocabulary
func NewFaker(vocab *data.Vocabulary) *Faker {
	return &Faker{vocab: vocab}
}

// Person is a generated individual
type Person struct {
	FirstName string
	LastName  string
	Male      bool
}

// FullName returns "First Last"
func (p Person) FullName() string {
	return p.FirstName + " " + p.LastName
}

// Person draws a first and last name. Roughly one in three people get a
// double surname.
func (f *Faker) Person(rng *utils.Random) Person {
	male := rng.Bool()
	last := rng.PickString(f.vocab.GetLastNames())
	if rng.Probability(0.3) {
		last += " " + rng.PickString(f.vocab.GetLastNames())
	}
	return Person{
		FirstName: rng.PickString(f.vocab.GetFirstNames(male)),
		LastName:  last,
		Male:      male,
	}
}

// Name returns a full name
func (f *Faker) Name(rng *utils.Random) string {
	return f.Person(rng).FullName()
}

// Email derives a personal address from a person's name
func (f *Faker) Email(p Person, rng *utils.Random) string {
	first := slug(p.FirstName, "")
	last := slug(p.LastName, "")
	domain := rng.PickString(f.vocab.Companies.EmailDomains)

	switch rng.IntN(4) {
	case 0:
		return fmt.Sprintf("%s.%s@%s", first, last, domain)
	case 1:
		return fmt.Sprintf("%s%s@%s", first, last, domain)
	case 2:
		return fmt.Sprintf("%s.%s%d@%s", first, last, rng.IntRange(1, 999), domain)
	default:
		return fmt.Sprintf("%s_%s@%s", first, last, domain)
	}
}

// City picks a city uniformly
func (f *Faker) City(rng *utils.Random) data.City {
	cities := f.vocab.AllCities()
	return cities[rng.IntN(len(cities))]
}

// Phone returns a mobile number "(DD) 9NNNN-NNNN" in the city's area code
func (f *Faker) Phone(city data.City, rng *utils.Random) string {
	return fmt.Sprintf("(%s) 9%s-%s", city.AreaCode, rng.NumericString(4), rng.NumericString(4))
}

// CPF returns a formatted taxpayer number with valid check digits
func (f *Faker) CPF(rng *utils.Random) string {
	d := rng.Digits(9)
	// All-equal sequences pass the checksum but are invalid
	if allEqual(d) {
		d[8] = (d[8] + 1) % 10
	}
	d = append(d, cpfCheckDigit(d))
	d = append(d, cpfCheckDigit(d))

	var sb strings.Builder
	for i, digit := range d {
		switch i {
		case 3, 6:
			sb.WriteByte('.')
		case 9:
			sb.WriteByte('-')
		}
		sb.WriteByte(byte('0' + digit))
	}
	return sb.String()
}

// cpfCheckDigit computes the next check digit over the given digits
func cpfCheckDigit(d []int) int {
	weight := len(d) + 1
	sum := 0
	for _, digit := range d {
		sum += digit * weight
		weight--
	}
	r := sum % 11
	if r < 2 {
		return 0
	}
	return 11 - r
}

// ValidCPF reports whether a formatted or bare CPF has correct check digits
func ValidCPF(cpf string) bool {
	var d []int
	for _, c := range cpf {
		if c >= '0' && c <= '9' {
			d = append(d, int(c-'0'))
		}
	}
	if len(d) != 11 || allEqual(d) {
		return false
	}
	return cpfCheckDigit(d[:9]) == d[9] && cpfCheckDigit(d[:10]) == d[10]
}

func allEqual(d []int) bool {
	for _, v := range d[1:] {
		if v != d[0] {
			return false
		}
	}
	return true
}

// Company returns a business name such as "Brasa Oliveira LTDA"
func (f *Faker) Company(rng *utils.Random) string {
	name := rng.PickString(f.vocab.Companies.Names)
	if len(f.vocab.Companies.Families) > 0 && rng.Bool() {
		name += " " + rng.PickString(f.vocab.Companies.Families)
	}
	return name + " " + rng.PickString(f.vocab.Companies.Suffixes)
}

// CompanyEmail returns a contact address on a domain derived from the name
func (f *Faker) CompanyEmail(company string, rng *utils.Random) string {
	tld := "com.br"
	if len(f.vocab.Companies.CompanyTLDs) > 0 {
		tld = rng.PickString(f.vocab.Companies.CompanyTLDs)
	}
	mailbox := rng.PickString([]string{"contato", "vendas", "comercial", "atendimento"})
	return fmt.Sprintf("%s@%s.%s", mailbox, slug(company, ""), tld)
}

// Street returns "<type> <name>", e.g. "Avenida Paulista"
func (f *Faker) Street(rng *utils.Random) string {
	return rng.PickString(f.vocab.Streets.Types) + " " + rng.PickString(f.vocab.Streets.Names)
}

// District returns a neighborhood name
func (f *Faker) District(rng *utils.Random) string {
	return rng.PickString(f.vocab.Streets.Districts)
}

// PostalCode fills the vocabulary's postal mask ('#' = digit), taking the
// leading digits from the city's prefix
func (f *Faker) PostalCode(city data.City, rng *utils.Random) string {
	format := f.vocab.PostalFormat()
	if format == "" {
		format = "#####-###"
	}

	var sb strings.Builder
	prefixIdx := 0
	for _, c := range format {
		if c != '#' {
			sb.WriteRune(c)
			continue
		}
		if prefixIdx < len(city.PostalPrefix) {
			sb.WriteByte(city.PostalPrefix[prefixIdx])
			prefixIdx++
			continue
		}
		sb.WriteByte(byte('0' + rng.IntN(10)))
	}
	return sb.String()
}

// slug lowercases s, strips accents and keeps only letters and digits,
// joining words with sep
func slug(s, sep string) string {
	// Chains carry state, so build one per call
	stripMarks := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	plain, _, err := transform.String(stripMarks, s)
	if err != nil {
		plain = s
	}
	var sb strings.Builder
	pendingSep := false
	for _, r := range strings.ToLower(plain) {
		switch {
		case r < unicode.MaxASCII && (unicode.IsLetter(r) || unicode.IsDigit(r)):
			if pendingSep && sb.Len() > 0 {
				sb.WriteString(sep)
			}
			pendingSep = false
			sb.WriteRune(r)
		default:
			pendingSep = true
		}
	}
	return sb.String()
}
