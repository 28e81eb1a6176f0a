package handler

import (
	"github.com/fitexperts/experts-api/internal/core/domain"
	"github.com/fitexperts/experts-api/internal/core/ports"
)

type faqRequest struct {
	Question string `json:"question"`
	Answer   string `json:"answer"`
}

type createProgramRequest struct {
	Name        string       `json:"name"        validate:"required"`
	Description string       `json:"description" validate:"required"`
	Duration    string       `json:"duration"    validate:"required"`
	Price       string       `json:"price"       validate:"required"`
	Highlights  string       `json:"highlights"`
	FAQs        []faqRequest `json:"faqs"`
}

// updateProgramRequest leaves every field optional; empty fields are kept.
type updateProgramRequest struct {
	Name        string       `json:"name"`
	Description string       `json:"description"`
	Duration    string       `json:"duration"`
	Price       string       `json:"price"`
	Highlights  string       `json:"highlights"`
	FAQs        []faqRequest `json:"faqs"`
}

type programListResponse struct {
	Programs []*domain.Program `json:"programs"`
	Count    int               `json:"count"`
}

func toProgramInput(name, description, duration, price, highlights string, faqs []faqRequest) ports.ProgramInput {
	in := ports.ProgramInput{
		Name:        name,
		Description: description,
		Duration:    duration,
		Price:       price,
		Highlights:  highlights,
	}
	for _, f := range faqs {
		in.FAQs = append(in.FAQs, domain.FAQ{Question: f.Question, Answer: f.Answer})
	}
	return in
}
