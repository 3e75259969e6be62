package service

import (
	"testing"
)

func TestRegexpExtractor(t *testing.T) {
	e := RegexpExtractor{}

	names := e.Extract("The storm passed. Mira met Josef by the pier, and Mira waved.")
	want := map[string]bool{"Mira": true, "Josef": true}
	if len(names) != len(want) {
		t.Fatalf("Extract = %v, want %v", names, want)
	}
	for _, n := range names {
		if !want[n] {
			t.Fatalf("unexpected name %q in %v", n, names)
		}
	}
}

func TestRecordCharactersFromMessage(t *testing.T) {
	svc := NewCharacterService(newTestDB(t), nil)

	if err := svc.RecordCharactersFromMessage("c1", 1, "Mira greeted Josef warmly.", []string{"Mira"}); err != nil {
		t.Fatalf("record: %v", err)
	}

	chars, err := svc.GetCharacters("c1")
	if err != nil {
		t.Fatalf("GetCharacters: %v", err)
	}
	byName := map[string]bool{}
	for _, c := range chars {
		byName[c.Name] = true
		switch c.Name {
		case "Mira":
			if !c.IsMain || c.IsAutoGenerated {
				t.Fatalf("Mira flags = %+v", c)
			}
		case "Josef":
			if c.IsMain || !c.IsAutoGenerated {
				t.Fatalf("Josef flags = %+v", c)
			}
		}
		if c.FirstAppearedMessageID == nil || *c.FirstAppearedMessageID != 1 {
			t.Fatalf("FirstAppearedMessageID = %v", c.FirstAppearedMessageID)
		}
	}
	if !byName["Mira"] || !byName["Josef"] {
		t.Fatalf("characters = %v", byName)
	}

	// A later message does not duplicate known characters.
	if err := svc.RecordCharactersFromMessage("c1", 2, "Mira laughed.", []string{"Mira"}); err != nil {
		t.Fatalf("record again: %v", err)
	}
	chars, err = svc.GetCharacters("c1")
	if err != nil {
		t.Fatalf("GetCharacters: %v", err)
	}
	if len(chars) != 2 {
		t.Fatalf("len = %d after repeat mention, want 2", len(chars))
	}
}

func TestUpdateCharacter(t *testing.T) {
	svc := NewCharacterService(newTestDB(t), nil)
	if err := svc.RecordCharactersFromMessage("c1", 1, "Anya arrived.", nil); err != nil {
		t.Fatalf("record: %v", err)
	}

	unavailable := true
	notes := "left in chapter two"
	rec, err := svc.UpdateCharacter("c1", "Anya", &unavailable, &notes)
	if err != nil {
		t.Fatalf("UpdateCharacter: %v", err)
	}
	if !rec.IsUnavailable || rec.Notes != notes {
		t.Fatalf("updated record = %+v", rec)
	}

	if _, err := svc.UpdateCharacter("c1", "Nobody", &unavailable, nil); err != ErrCharacterNotFound {
		t.Fatalf("err = %v, want ErrCharacterNotFound", err)
	}
}

func TestDeleteByMessageID(t *testing.T) {
	svc := NewCharacterService(newTestDB(t), nil)
	if err := svc.RecordCharactersFromMessage("c1", 7, "Rook entered.", nil); err != nil {
		t.Fatalf("record: %v", err)
	}
	if err := svc.RecordCharactersFromMessage("c1", 8, "Wren followed.", nil); err != nil {
		t.Fatalf("record: %v", err)
	}

	if err := svc.DeleteByMessageID("c1", 7); err != nil {
		t.Fatalf("DeleteByMessageID: %v", err)
	}
	chars, err := svc.GetCharacters("c1")
	if err != nil {
		t.Fatalf("GetCharacters: %v", err)
	}
	if len(chars) != 1 || chars[0].Name != "Wren" {
		t.Fatalf("chars = %+v", chars)
	}
}
