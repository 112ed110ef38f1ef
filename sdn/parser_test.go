package sdn

import "testing"

const sampleXML = `<?xml version="1.0" encoding="utf-8"?>
<sdnList xmlns="https://sanctionslistservice.example/schema">
  <sdnEntry>
    <uid>1001</uid>
    <lastName>ACME TRADING LLC</lastName>
    <sdnType>Entity</sdnType>
    <akaList>
      <aka>
        <lastName>ACME TRADE</lastName>
      </aka>
    </akaList>
    <addressList>
      <address>
        <city>Moscow</city>
        <country>Russia</country>
      </address>
    </addressList>
    <programList>
      <program>UKRAINE-EO13662</program>
    </programList>
    <idList>
      <id>
        <idType>Tax ID No.</idType>
        <idNumber>7701234567</idNumber>
      </id>
    </idList>
    <remarks>test entry</remarks>
  </sdnEntry>
  <sdnEntry>
    <uid>1002</uid>
    <firstName>Ivan</firstName>
    <middleName>Ivanovich</middleName>
    <lastName>Ivanov</lastName>
    <sdnType>Individual</sdnType>
    <dateOfBirthList>
      <dateOfBirthItem>
        <dateOfBirth>01 Jan 1970</dateOfBirth>
      </dateOfBirthItem>
    </dateOfBirthList>
  </sdnEntry>
  <sdnEntry>
    <uid>1003</uid>
  </sdnEntry>
</sdnList>`

// Тесты для ParseRecords
func TestParseRecords_NamespacedDocument(t *testing.T) {
	records, err := ParseRecords([]byte(sampleXML))
	if err != nil {
		t.Fatalf("ParseRecords() error = %v", err)
	}

	if len(records) != 3 {
		t.Fatalf("Expected 3 records, got %d", len(records))
	}

	first := records[0]
	if first.UID != "1001" {
		t.Errorf("Expected UID '1001', got %q", first.UID)
	}
	if first.Name != "ACME TRADING LLC" {
		t.Errorf("Expected name 'ACME TRADING LLC', got %q", first.Name)
	}
	if len(first.AKANames) != 1 || first.AKANames[0] != "ACME TRADE" {
		t.Errorf("Unexpected aka names: %v", first.AKANames)
	}
	if len(first.Addresses) != 1 || first.Addresses[0].Country != "Russia" {
		t.Errorf("Unexpected addresses: %v", first.Addresses)
	}
	if len(first.Programs) != 1 || first.Programs[0] != "UKRAINE-EO13662" {
		t.Errorf("Unexpected programs: %v", first.Programs)
	}
	if len(first.IDs) != 1 || first.IDs[0].IDType != "Tax ID No." || first.IDs[0].IDNumber != "7701234567" {
		t.Errorf("Unexpected ids: %v", first.IDs)
	}
	if first.Remarks != "test entry" {
		t.Errorf("Unexpected remarks: %q", first.Remarks)
	}
}

func TestParseRecords_NameFromParts(t *testing.T) {
	records, err := ParseRecords([]byte(sampleXML))
	if err != nil {
		t.Fatalf("ParseRecords() error = %v", err)
	}

	second := records[1]
	if second.Name != "Ivan Ivanovich Ivanov" {
		t.Errorf("Expected combined name 'Ivan Ivanovich Ivanov', got %q", second.Name)
	}
	if second.DateOfBirth != "01 Jan 1970" {
		t.Errorf("Expected date of birth '01 Jan 1970', got %q", second.DateOfBirth)
	}
}

func TestParseRecords_EmptyEntryStillEmitted(t *testing.T) {
	records, err := ParseRecords([]byte(sampleXML))
	if err != nil {
		t.Fatalf("ParseRecords() error = %v", err)
	}

	// Запись без имени и прочих полей не отбрасывается
	third := records[2]
	if third.UID != "1003" {
		t.Errorf("Expected UID '1003', got %q", third.UID)
	}
	if third.Name != "" {
		t.Errorf("Expected empty name, got %q", third.Name)
	}
}

func TestParseRecords_WithoutNamespace(t *testing.T) {
	plain := `<?xml version="1.0"?>
<sdnList>
  <sdnEntry>
    <uid>42</uid>
    <lastName>Test Entity</lastName>
  </sdnEntry>
</sdnList>`

	records, err := ParseRecords([]byte(plain))
	if err != nil {
		t.Fatalf("ParseRecords() error = %v", err)
	}
	if len(records) != 1 || records[0].Name != "Test Entity" {
		t.Errorf("Unexpected records: %v", records)
	}
}

func TestParseRecords_Malformed(t *testing.T) {
	if _, err := ParseRecords([]byte("not xml at all")); err == nil {
		t.Error("Expected error for malformed document")
	}
}
