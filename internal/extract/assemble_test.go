package extract

import (
	"strings"
	"testing"

	"EditalScanner/internal/domain"
	"EditalScanner/internal/whitelist"
)

func fullNotice() string {
	return strings.Join([]string{
		"MINISTÉRIO DA EDUCAÇÃO",
		"UNIVERSIDADE FEDERAL DO CEARÁ",
		"EDITAL Nº 12/2026 CONCURSO PÚBLICO",
		"O certame é destinado a selecionar candidatos para o cargo de Professor do Magistério Superior.",
		"Total de vagas: 20",
		"PCD: 2",
		"Taxa de inscrição: R$ 110,00",
		"Remuneração inicial: R$ 9.616,18",
		"A organização será conduzida pela banca VUNESP.",
		"CRONOGRAMA",
		"Período de inscrições: 05/01/2026 a 30/01/2026",
		"Solicitação de isenção da taxa: 05/01/2026",
		"Aplicação da prova objetiva: Entre 15/03/2026 e 16/03/2026",
		"Divulgação do resultado preliminar: 25/03/2026",
		"ANEXO I",
	}, "\n")
}

func noticeOptions() Options {
	return Options{
		Boards: whitelist.New(whitelist.KindBoard, whitelist.DefaultBoards()),
		JobTitles: whitelist.New(whitelist.KindJobTitle, map[string][]string{
			"Professor do Magistério Superior": nil,
		}),
		FallbackPrefix: 3000,
	}
}

func TestAssembleFullNotice(t *testing.T) {
	t.Parallel()

	sum := Assemble("dou-2026-01-02-ed12", fullNotice(), noticeOptions())

	if sum.SourceID != "dou-2026-01-02-ed12" {
		t.Fatalf("unexpected source id: %q", sum.SourceID)
	}
	if sum.Metadata.Org == nil || *sum.Metadata.Org != "MINISTÉRIO DA EDUCAÇÃO UNIVERSIDADE FEDERAL DO CEARÁ" {
		t.Fatalf("unexpected org: %v", sum.Metadata.Org)
	}
	if sum.Metadata.EditalNumber == nil || *sum.Metadata.EditalNumber != "12/2026" {
		t.Fatalf("unexpected edital number: %v", sum.Metadata.EditalNumber)
	}
	if sum.Metadata.JobTitle == nil || *sum.Metadata.JobTitle != "Professor do Magistério Superior" {
		t.Fatalf("unexpected job title: %v", sum.Metadata.JobTitle)
	}
	if sum.Metadata.Board == nil || *sum.Metadata.Board != "VUNESP" {
		t.Fatalf("unexpected board: %v", sum.Metadata.Board)
	}
	if sum.Vacancies.Total == nil || *sum.Vacancies.Total != 20 {
		t.Fatalf("unexpected total vacancies: %v", sum.Vacancies.Total)
	}
	if sum.Vacancies.ReservedA == nil || *sum.Vacancies.ReservedA != 2 {
		t.Fatalf("unexpected reserved vacancies: %v", sum.Vacancies.ReservedA)
	}
	if sum.Financial.Fee == nil || *sum.Financial.Fee != "R$ 110,00" {
		t.Fatalf("unexpected fee: %v", sum.Financial.Fee)
	}
	if sum.Financial.StartingSalary == nil || *sum.Financial.StartingSalary != "R$ 9.616,18" {
		t.Fatalf("unexpected salary: %v", sum.Financial.StartingSalary)
	}

	sched := sum.Schedule
	if sched.RegistrationStart == nil || sched.RegistrationStart.ISO() != "2026-01-05" {
		t.Fatalf("unexpected registration start: %v", sched.RegistrationStart)
	}
	if sched.RegistrationEnd == nil || sched.RegistrationEnd.ISO() != "2026-01-30" {
		t.Fatalf("unexpected registration end: %v", sched.RegistrationEnd)
	}
	if sched.WaiverStart == nil || sched.WaiverStart.ISO() != "2026-01-05" {
		t.Fatalf("unexpected waiver start: %v", sched.WaiverStart)
	}
	if sched.ExamDate == nil || sched.ExamDate.ISO() != "2026-03-15" {
		t.Fatalf("unexpected exam date: %v", sched.ExamDate)
	}

	if sum.OverallConfidence != domain.ConfidenceHigh {
		t.Fatalf("expected high confidence, got %s", sum.OverallConfidence)
	}
	if len(sum.Issues) != 0 {
		t.Fatalf("unexpected issues: %v", sum.Issues)
	}
	if got := sum.Snippets["board"]; got != "VUNESP" {
		t.Fatalf("unexpected board snippet: %q", got)
	}
	if got := sum.Snippets["registration"]; !strings.Contains(got, "inscrições") {
		t.Fatalf("registration snippet lost its context: %q", got)
	}
}

func TestAssembleEmptyInput(t *testing.T) {
	t.Parallel()

	for _, raw := range []string{"", "  \n\t\n  "} {
		sum := Assemble("dou-empty", raw, noticeOptions())

		if sum.Metadata.Org != nil || sum.Metadata.EditalNumber != nil ||
			sum.Metadata.JobTitle != nil || sum.Metadata.Board != nil {
			t.Fatalf("metadata must be null for %q: %+v", raw, sum.Metadata)
		}
		if sum.Vacancies.Total != nil || sum.Financial.Fee != nil || sum.Schedule.RegistrationStart != nil {
			t.Fatalf("fields must be null for %q", raw)
		}
		if sum.OverallConfidence != domain.ConfidenceLow {
			t.Fatalf("expected low confidence, got %s", sum.OverallConfidence)
		}

		want := []domain.Issue{
			domain.IssueMissingOrg,
			domain.IssueMissingEditalNumber,
			domain.IssueMissingJobTitle,
			domain.IssueMissingTotalVacancies,
			domain.IssueMissingFee,
			domain.IssueMissingKeyDates,
		}
		if len(sum.Issues) != len(want) {
			t.Fatalf("expected %d issues, got %v", len(want), sum.Issues)
		}
		for i, issue := range want {
			if sum.Issues[i] != issue {
				t.Fatalf("issue %d: got %s, want %s", i, sum.Issues[i], issue)
			}
		}
		if len(sum.Snippets) != 0 {
			t.Fatalf("unexpected snippets: %v", sum.Snippets)
		}
	}
}

func TestAssembleConfidenceTiers(t *testing.T) {
	t.Parallel()

	medium := Assemble("dou-medium",
		"PREFEITURA MUNICIPAL DE LAGES\nEDITAL Nº 88/2026\nTaxa de inscrição: R$ 60,00",
		Options{})
	if medium.OverallConfidence != domain.ConfidenceMedium {
		t.Fatalf("three filled slots grade medium, got %s", medium.OverallConfidence)
	}

	low := Assemble("dou-low", "Taxa de inscrição: R$ 10,00", Options{})
	if low.OverallConfidence != domain.ConfidenceLow {
		t.Fatalf("one filled slot grades low, got %s", low.OverallConfidence)
	}
}

func TestAssembleRescuedJobTitleDoesNotRaiseConfidence(t *testing.T) {
	t.Parallel()

	text := strings.Join([]string{
		"MINISTÉRIO DA GESTÃO",
		"EDITAL Nº 7/2026",
		"Contratação de Analista Judiciário para o quadro permanente.",
		"Total de vagas: 10",
		"Taxa de inscrição: R$ 95,00",
	}, "\n")
	opts := Options{
		JobTitles: whitelist.New(whitelist.KindJobTitle, map[string][]string{
			"Analista Judiciário": nil,
		}),
		FallbackPrefix: 3000,
	}

	sum := Assemble("dou-rescue", text, opts)
	if sum.Metadata.JobTitle == nil || *sum.Metadata.JobTitle != "Analista Judiciário" {
		t.Fatalf("expected rescued job title, got %v", sum.Metadata.JobTitle)
	}
	if sum.OverallConfidence != domain.ConfidenceMedium {
		t.Fatalf("rescued title must not count toward confidence, got %s", sum.OverallConfidence)
	}
	if len(sum.Issues) != 1 || sum.Issues[0] != domain.IssueMissingKeyDates {
		t.Fatalf("unexpected issues: %v", sum.Issues)
	}
}

func TestAssembleSingleDateRegistration(t *testing.T) {
	t.Parallel()

	sum := Assemble("dou-single", "As inscrições serão encerradas em 28/02/2026 no site da banca.", Options{})
	if sum.Schedule.RegistrationStart == nil || sum.Schedule.RegistrationStart.ISO() != "2026-02-28" {
		t.Fatalf("unexpected registration start: %v", sum.Schedule.RegistrationStart)
	}
	if sum.Schedule.RegistrationEnd != nil {
		t.Fatalf("single date must not set an end, got %v", sum.Schedule.RegistrationEnd)
	}
}

func TestAssembleTagsMessyBoard(t *testing.T) {
	t.Parallel()

	text := "O concurso ficará sob responsabilidade da banca, por Organizadora " +
		strings.Repeat("Nome Extenso ", 10)
	sum := Assemble("dou-messy", text, Options{})

	if sum.Metadata.Board == nil {
		t.Fatalf("expected a board value")
	}
	if !sum.HasIssue(domain.IssueBoardMessy) {
		t.Fatalf("expected board_messy, got %v", sum.Issues)
	}
	if !sum.HasIssue(domain.IssueBoardAmbiguous) {
		t.Fatalf("expected board_ambiguous, got %v", sum.Issues)
	}
}
