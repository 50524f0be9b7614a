package pipeline

import (
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"

	"dpwhparse/internal/notes"
)

const sampleRowHTML = `
<table>
<tbody class="table-group-divider">
<tr>
<th scope="row">17.</th>
<td><span id="ctl00_gv_lblCustomerId_17">22O00114</span></td>
<td><span id="ctl00_gv_lblContactName_17">Construction of Flood Mitigation Structure</span></td>
<td><span id="ctl00_gv_lblCountry_17">ACME BUILDERS CORP (12345)</span></td>
<td><span id="ctl00_gv_Label5_17">Region IV-B - Palawan 3rd DEO</span></td>
<td><span id="ctl00_gv_Label6_17">Regular Infra</span></td>
<td><span id="ctl00_gv_Label2_17">96,479,997.65</span></td>
<td><span id="ctl00_gv_Label3_17">March 15, 2022</span></td>
<td><span id="ctl00_gv_Label4_17">2022-12-10</span></td>
<td><span id="ctl00_gv_Label7_17">Completed</span></td>
<td><span id="ctl00_gv_Label1_17">100</span></td>
</tr>
</tbody>
</table>`

func mustDoc(t *testing.T, html string) *goquery.Document {
	t.Helper()
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		t.Fatal(err)
	}
	return doc
}

func TestSpanByMarker(t *testing.T) {
	doc := mustDoc(t, sampleRowHTML)
	tr := doc.Find("tr").First()

	if got := SpanByMarker(tr, "lblCustomerId"); got == nil || *got != "22O00114" {
		t.Fatalf("contract id=%v", got)
	}
	if got := SpanByMarker(tr, "Label7"); got == nil || *got != "Completed" {
		t.Fatalf("status=%v", got)
	}
	if got := SpanByMarker(tr, "lblNoSuchMarker"); got != nil {
		t.Fatalf("absent marker=%q", *got)
	}
}

func TestAssembleRecordFullRow(t *testing.T) {
	doc := mustDoc(t, sampleRowHTML)
	tbodies := ContractRows(doc)
	if len(tbodies) != 1 {
		t.Fatalf("tbodies=%d", len(tbodies))
	}

	record := AssembleRecord(tbodies[0], 2022, "Region IV-B", "table_Region_IV-B_2022_20251111_155202.html")
	if record == nil {
		t.Fatal("record is nil")
	}
	if record.RowNumber == nil || *record.RowNumber != "17" {
		t.Fatalf("row number=%v", record.RowNumber)
	}
	if record.ContractID == nil || *record.ContractID != "22O00114" {
		t.Fatalf("contract id=%v", record.ContractID)
	}
	if record.ContractorName1 == nil || *record.ContractorName1 != "ACME BUILDERS CORP" {
		t.Fatalf("contractor=%v", record.ContractorName1)
	}
	if record.Region == nil || *record.Region != "Region IV-B" {
		t.Fatalf("region=%v", record.Region)
	}
	if record.ImplementingOffice == nil || *record.ImplementingOffice != "Palawan 3rd DEO" {
		t.Fatalf("office=%v", record.ImplementingOffice)
	}
	if record.CostPHP == nil || *record.CostPHP != 96479997.65 {
		t.Fatalf("cost=%v", record.CostPHP)
	}
	if record.EffectivityDate == nil || *record.EffectivityDate != "2022-03-15" {
		t.Fatalf("effectivity=%v", record.EffectivityDate)
	}
	if record.ExpiryDate == nil || *record.ExpiryDate != "2022-12-10" {
		t.Fatalf("expiry=%v", record.ExpiryDate)
	}
	if record.AccomplishmentPct == nil || *record.AccomplishmentPct != 100 {
		t.Fatalf("accomplishment=%v", record.AccomplishmentPct)
	}
	if record.Year != 2022 || record.SourceOffice != "Region IV-B" {
		t.Fatalf("metadata: %+v", record)
	}
	if record.CriticalErrors != nil || record.Errors != nil || record.Warnings != nil {
		t.Fatalf("clean row has notes: crit=%v err=%v warn=%v",
			record.CriticalErrors, record.Errors, record.Warnings)
	}
}

func TestAssembleRecordMissingContractID(t *testing.T) {
	html := strings.Replace(sampleRowHTML, "lblCustomerId", "lblSomethingElse", 1)
	doc := mustDoc(t, html)
	tbodies := ContractRows(doc)
	if len(tbodies) != 1 {
		t.Fatalf("tbodies=%d", len(tbodies))
	}

	// The row is still emitted; the missing field becomes an error note.
	record := AssembleRecord(tbodies[0], 2022, "Region IV-B", "file.html")
	if record == nil {
		t.Fatal("record is nil")
	}
	if record.ContractID != nil {
		t.Fatalf("contract id=%v want nil", *record.ContractID)
	}
	if !hasCode(record.Errors, notes.CodeMissingContractID) {
		t.Fatalf("errors=%v", record.Errors)
	}
}

func TestAssembleRecordEmptyStatusIsWarning(t *testing.T) {
	html := strings.Replace(sampleRowHTML, ">Completed<", "><", 1)
	doc := mustDoc(t, html)
	record := AssembleRecord(ContractRows(doc)[0], 2022, "Region IV-B", "file.html")
	if record == nil {
		t.Fatal("record is nil")
	}
	if !hasCode(record.Warnings, notes.CodeEmptyStatus) {
		t.Fatalf("warnings=%v", record.Warnings)
	}
	if hasCode(record.Errors, notes.CodeEmptyStatus) {
		t.Fatalf("empty status escalated to error: %v", record.Errors)
	}
}

func TestContractRowsSkipsHeaderlessTbody(t *testing.T) {
	html := `
<table>
<tbody class="table-group-divider"><tr><td>no header cell here</td></tr></tbody>
<tbody class="table-group-divider"><tr><th scope="row">1.</th><td><span id="x_lblCustomerId_0">A1</span></td></tr></tbody>
</table>`
	doc := mustDoc(t, html)
	tbodies := ContractRows(doc)
	if len(tbodies) != 1 {
		t.Fatalf("tbodies=%d want 1", len(tbodies))
	}
	record := AssembleRecord(tbodies[0], 2020, "Central Office", "file.html")
	if record == nil || record.ContractID == nil || *record.ContractID != "A1" {
		t.Fatalf("record=%+v", record)
	}
}

func TestSplitImplementingOffice(t *testing.T) {
	region, office := splitImplementingOffice("Central Office - Flood Control Management Cluster")
	if region == nil || *region != "Central Office" {
		t.Fatalf("region=%v", region)
	}
	if office == nil || *office != "Flood Control Management Cluster" {
		t.Fatalf("office=%v", office)
	}

	region, office = splitImplementingOffice("Palawan 3rd DEO")
	if region != nil {
		t.Fatalf("region=%v want nil", *region)
	}
	if office == nil || *office != "Palawan 3rd DEO" {
		t.Fatalf("office=%v", office)
	}
}
