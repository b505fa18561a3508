package calendar

import "testing"

func TestView_StartsWithNoSelection(t *testing.T) {
	v := NewView(ReferenceMonth{Year: 2024, Month: 4})
	if st := v.State(SeedIndex()); st != NoSelection {
		t.Errorf("expected no selection, got %s", st)
	}
	if appts := v.Appointments(SeedIndex()); len(appts) != 0 {
		t.Errorf("expected no appointments, got %d", len(appts))
	}
}

func TestView_SelectPopulatedCell(t *testing.T) {
	index := SeedIndex()
	v := NewView(ReferenceMonth{Year: 2024, Month: 4})
	cells := BuildMonthGrid(v.Month, index)

	cell, _ := FindCell(cells, "2024-05-10")
	if !v.Select(cell) {
		t.Fatal("expected selection to change")
	}
	if st := v.State(index); st != SelectedWithAppointments {
		t.Errorf("expected selected with appointments, got %s", st)
	}
	if appts := v.Appointments(index); len(appts) != 1 || appts[0].Type != "Blood Test" {
		t.Errorf("unexpected appointments %+v", appts)
	}

	cell, _ = FindCell(cells, "2024-05-11")
	v.Select(cell)
	if st := v.State(index); st != SelectedEmpty {
		t.Errorf("expected selected empty, got %s", st)
	}
}

func TestView_SelectBlankCellIsNoop(t *testing.T) {
	index := SeedIndex()
	v := NewView(ReferenceMonth{Year: 2024, Month: 4})
	cells := BuildMonthGrid(v.Month, index)

	if v.Select(cells[0]) {
		t.Error("blank cell should not change selection")
	}
	if v.Selected != "" {
		t.Errorf("expected no selection, got %q", v.Selected)
	}

	cell, _ := FindCell(cells, "2024-05-25")
	v.Select(cell)
	v.Select(cells[1])
	if v.Selected != "2024-05-25" {
		t.Errorf("blank click changed selection to %q", v.Selected)
	}
}

func TestView_NavigateClearsSelection(t *testing.T) {
	index := SeedIndex()
	v := NewView(ReferenceMonth{Year: 2024, Month: 0})
	cell, _ := FindCell(BuildMonthGrid(v.Month, index), "2024-01-15")
	v.Select(cell)

	got := v.Navigate(-1)
	if got != (ReferenceMonth{Year: 2023, Month: 11}) {
		t.Errorf("expected December 2023, got %+v", got)
	}
	if v.Selected != "" {
		t.Errorf("expected selection cleared, got %q", v.Selected)
	}
	if st := v.State(index); st != NoSelection {
		t.Errorf("expected no selection, got %s", st)
	}
}

func TestSelectionState_String(t *testing.T) {
	if NoSelection.String() != "none" || SelectedWithAppointments.String() != "selected" || SelectedEmpty.String() != "selected-empty" {
		t.Error("unexpected state names")
	}
}
