package domain

import "time"

// FAQ is a question/answer pair shown on a program page.
type FAQ struct {
	Question string `json:"question" bson:"question"`
	Answer   string `json:"answer" bson:"answer"`
}

// Program is a coaching offer listed by an expert.
type Program struct {
	ID          string    `json:"id"`
	ExpertID    string    `json:"expertId"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Duration    string    `json:"duration"`
	Price       string    `json:"price"`
	Highlights  string    `json:"highlights,omitempty"`
	FAQs        []FAQ     `json:"faqs"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// Owner reports the expert that listed the program.
func (p *Program) Owner() string { return p.ExpertID }

// Owned is any resource that carries an owner identity id.
type Owned interface {
	Owner() string
}
