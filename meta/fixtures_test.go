package meta_test

import (
	"errors"
	"strconv"

	"github.com/Konsultn-Engineering/reflcache/meta"
)

// =========================================================================
// Annotation Types
// =========================================================================

type Label struct {
	Text string
}

type Entity struct {
	Table string
}

type Tracked struct{}

type Describer interface {
	Describe() string
}

type Doc string

func (d Doc) Describe() string { return string(d) }

// =========================================================================
// Sample: one constructor, one property, one field, one nil-receiver method
// =========================================================================

type Sample struct {
	Value int
	name  string
}

func NewSample(n int) *Sample {
	return &Sample{Value: n}
}

func (s *Sample) Name() string     { return s.name }
func (s *Sample) SetName(v string) { s.name = v }

func (Sample) Process(n int) string {
	return strconv.Itoa(n)
}

// =========================================================================
// Account: embedding, read-only fields, one-sided properties
// =========================================================================

type Audit struct {
	CreatedBy string
}

type Account struct {
	Audit
	Owner   string `json:"owner,omitempty"`
	Balance int64  `reflcache:"readonly" json:"balance"`
	pin     int
	limit   int64
}

func NewAccount(owner string) *Account {
	return &Account{Owner: owner}
}

func OpenAccount(owner string, balance int64) (Account, error) {
	if owner == "" {
		return Account{}, errAnonymous
	}
	return Account{Owner: owner, Balance: balance}, nil
}

var errAnonymous = errors.New("account needs an owner")

// ID is getter-only.
func (a Account) ID() string { return "acct-" + a.Owner }

// SetPin is setter-only.
func (a *Account) SetPin(pin int) { a.pin = pin }

func (a *Account) Limit() int64     { return a.limit }
func (a *Account) SetLimit(l int64) { a.limit = l }

func (a *Account) Deposit(amount int64) (int64, error) {
	if amount <= 0 {
		return a.Balance, errors.New("deposit must be positive")
	}
	a.Balance += amount
	return a.Balance, nil
}

func (a *Account) Tags(prefix string, names ...string) []string {
	out := make([]string, len(names))
	for i, n := range names {
		out[i] = prefix + n
	}
	return out
}

// =========================================================================
// Empty
// =========================================================================

type Empty struct{}

func init() {
	meta.MustRegisterConstructor(NewSample)
	meta.AnnotateMember[Sample]("Name", Label{Text: "display name"})

	meta.MustRegisterConstructor(NewAccount)
	meta.MustRegisterConstructor(OpenAccount)

	meta.Annotate[Account](Entity{Table: "accounts"}, Doc("bank account"))
	meta.Annotate[Audit](Tracked{})
	meta.AnnotateMember[Account]("Owner", Label{Text: "owner"}, Label{Text: "holder"})
	meta.AnnotateMember[Audit]("CreatedBy", Label{Text: "creator"})
	meta.AnnotateMember[Account]("Deposit", Doc("adds funds"))
}
