package services

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/gene2phenotype/g2pbackend/database"
	"github.com/gene2phenotype/g2pbackend/models"
	"github.com/gene2phenotype/g2pbackend/permissions"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// fixture seeds the reference data every lifecycle test needs: users,
// panels, a locus per chromosome class, controlled vocabularies and a
// couple of publications.
type fixture struct {
	db *gorm.DB

	superuser *models.User
	curator   *models.User

	panelDD  *models.Panel
	panelEar *models.Panel

	locusAutosomal *models.Locus // chromosome 7
	locusXLinked   *models.Locus // chromosome X

	genotypeBiallelic *models.Attrib
	genotypeXHet      *models.Attrib
	confDefinitive    *models.Attrib
	confStrong        *models.Attrib
	confLimited       *models.Attrib

	mechUndetermined *models.CVMolecularMechanism
	mechLOF          *models.CVMolecularMechanism
	supInferred      *models.CVMolecularMechanism
	supEvidence      *models.CVMolecularMechanism
	synLOF           *models.CVMolecularMechanism

	disease1 *models.Disease
	disease2 *models.Disease

	pub1 *models.Publication
	pub2 *models.Publication

	hpoSeizure *models.OntologyTerm
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}
	if err := database.AutoMigrateModels(db); err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}

	f := &fixture{db: db}

	// attrib types and values
	typeGenotype := models.AttribType{Code: "genotype"}
	typeConfidence := models.AttribType{Code: "confidence_category"}
	typeSupport := models.AttribType{Code: "support"}
	typeCCM := models.AttribType{Code: "cross_cutting_modifier"}
	for _, at := range []*models.AttribType{&typeGenotype, &typeConfidence, &typeSupport, &typeCCM} {
		if err := db.Create(at).Error; err != nil {
			t.Fatalf("failed to seed attrib type: %v", err)
		}
	}
	f.genotypeBiallelic = &models.Attrib{Value: "biallelic_autosomal", TypeID: typeGenotype.ID}
	f.genotypeXHet = &models.Attrib{Value: "monoallelic_X_heterozygous", TypeID: typeGenotype.ID}
	f.confDefinitive = &models.Attrib{Value: "definitive", TypeID: typeConfidence.ID}
	f.confStrong = &models.Attrib{Value: "strong", TypeID: typeConfidence.ID}
	f.confLimited = &models.Attrib{Value: "limited", TypeID: typeConfidence.ID}
	ccmDeNovo := &models.Attrib{Value: "typically de novo", TypeID: typeCCM.ID}
	for _, a := range []*models.Attrib{f.genotypeBiallelic, f.genotypeXHet, f.confDefinitive, f.confStrong, f.confLimited, ccmDeNovo} {
		if err := db.Create(a).Error; err != nil {
			t.Fatalf("failed to seed attrib: %v", err)
		}
	}

	// mechanisms
	f.mechUndetermined = &models.CVMolecularMechanism{Type: models.MechanismTypeMechanism, Value: "undetermined"}
	f.mechLOF = &models.CVMolecularMechanism{Type: models.MechanismTypeMechanism, Value: "loss of function"}
	f.supInferred = &models.CVMolecularMechanism{Type: models.MechanismTypeSupport, Value: "inferred"}
	f.supEvidence = &models.CVMolecularMechanism{Type: models.MechanismTypeSupport, Value: "evidence"}
	f.synLOF = &models.CVMolecularMechanism{Type: models.MechanismTypeSynopsis, Value: "destabilising LOF"}
	for _, cv := range []*models.CVMolecularMechanism{f.mechUndetermined, f.mechLOF, f.supInferred, f.supEvidence, f.synLOF} {
		if err := db.Create(cv).Error; err != nil {
			t.Fatalf("failed to seed mechanism: %v", err)
		}
	}

	// loci
	seq7 := models.Sequence{Name: "7"}
	seqX := models.Sequence{Name: "X"}
	for _, s := range []*models.Sequence{&seq7, &seqX} {
		if err := db.Create(s).Error; err != nil {
			t.Fatalf("failed to seed sequence: %v", err)
		}
	}
	f.locusAutosomal = &models.Locus{Name: "CTNNB1", SequenceID: seq7.ID}
	f.locusXLinked = &models.Locus{Name: "MECP2", SequenceID: seqX.ID}
	for _, l := range []*models.Locus{f.locusAutosomal, f.locusXLinked} {
		if err := db.Create(l).Error; err != nil {
			t.Fatalf("failed to seed locus: %v", err)
		}
	}

	f.disease1 = &models.Disease{Name: "CTNNB1-related neurodevelopmental disorder"}
	f.disease2 = &models.Disease{Name: "CTNNB1-related exudative vitreoretinopathy"}
	for _, d := range []*models.Disease{f.disease1, f.disease2} {
		if err := db.Create(d).Error; err != nil {
			t.Fatalf("failed to seed disease: %v", err)
		}
	}

	f.pub1 = &models.Publication{PMID: 30214071, Title: "First report"}
	f.pub2 = &models.Publication{PMID: 33057194, Title: "Second report"}
	for _, p := range []*models.Publication{f.pub1, f.pub2} {
		if err := db.Create(p).Error; err != nil {
			t.Fatalf("failed to seed publication: %v", err)
		}
	}

	f.hpoSeizure = &models.OntologyTerm{Accession: "HP:0001250", Term: "Seizure", GroupType: models.OntologyGroupPhenotype}
	if err := db.Create(f.hpoSeizure).Error; err != nil {
		t.Fatalf("failed to seed ontology term: %v", err)
	}

	f.panelDD = &models.Panel{Name: "DD", Description: "Developmental disorders"}
	f.panelEar = &models.Panel{Name: "Ear", Description: "Hearing loss"}
	for _, p := range []*models.Panel{f.panelDD, f.panelEar} {
		if err := db.Create(p).Error; err != nil {
			t.Fatalf("failed to seed panel: %v", err)
		}
	}

	f.superuser = &models.User{Username: "admin", Email: "admin@example.com", PasswordHash: "x", IsSuperuser: true, IsActive: true}
	f.curator = &models.User{Username: "curator", Email: "curator@example.com", PasswordHash: "x", IsActive: true}
	for _, u := range []*models.User{f.superuser, f.curator} {
		if err := db.Create(u).Error; err != nil {
			t.Fatalf("failed to seed user: %v", err)
		}
	}
	membership := models.UserPanel{
		UserID:  f.curator.ID,
		PanelID: f.panelDD.ID,
		Permissions: []string{
			permissions.RecordEdit,
			permissions.CurationPublish,
			permissions.RecordMerge,
		},
	}
	if err := db.Create(&membership).Error; err != nil {
		t.Fatalf("failed to seed panel membership: %v", err)
	}
	f.curator.PanelMemberships = []models.UserPanel{membership}

	return f
}

// createRecord publishes a fixture record directly, bypassing the
// curation flow, with the given panels and publications linked
func (f *fixture) createRecord(t *testing.T, locus *models.Locus, genotype *models.Attrib, disease *models.Disease,
	mechanism, support *models.CVMolecularMechanism, confidence *models.Attrib,
	panels []*models.Panel, pubs []*models.Publication) *models.LocusGenotypeDisease {
	t.Helper()

	var count int64
	if err := f.db.Model(&models.G2PStableID{}).Count(&count).Error; err != nil {
		t.Fatalf("failed to count stable IDs: %v", err)
	}
	stableID := models.G2PStableID{
		StableID: fmt.Sprintf("G2P%05d", count+1),
		IsLive:   true,
	}
	if err := f.db.Create(&stableID).Error; err != nil {
		t.Fatalf("failed to create stable ID: %v", err)
	}

	now := time.Now()
	lgd := models.LocusGenotypeDisease{
		LocusID:            locus.ID,
		GenotypeID:         genotype.ID,
		DiseaseID:          disease.ID,
		MechanismID:        mechanism.ID,
		MechanismSupportID: support.ID,
		ConfidenceID:       confidence.ID,
		StableIDID:         stableID.ID,
		IsReviewed:         1,
		DateReview:         &now,
	}
	if err := f.db.Create(&lgd).Error; err != nil {
		t.Fatalf("failed to create record: %v", err)
	}
	for _, panel := range panels {
		if err := f.db.Create(&models.LGDPanel{LGDID: lgd.ID, PanelID: panel.ID}).Error; err != nil {
			t.Fatalf("failed to link panel: %v", err)
		}
	}
	for _, pub := range pubs {
		if err := f.db.Create(&models.LGDPublication{LGDID: lgd.ID, PublicationID: pub.ID}).Error; err != nil {
			t.Fatalf("failed to link publication: %v", err)
		}
	}
	lgd.StableID = stableID
	return &lgd
}

func draftJSON(sessionName string, f *fixture) models.CurationJSON {
	return models.CurationJSON{
		SessionName:        sessionName,
		Locus:              f.locusAutosomal.Name,
		AllelicRequirement: "biallelic_autosomal",
		Disease:            models.CurationDisease{DiseaseName: "CTNNB1-related test disease"},
		Confidence:         models.CurationConfidence{Level: "definitive"},
		Panels:             []string{"DD"},
		Publications: []models.CurationPublication{
			{PMID: f.pub1.PMID},
			{PMID: f.pub2.PMID},
		},
		Phenotypes: []models.CurationPhenotypes{
			{PMID: f.pub1.PMID, HPOTerms: []models.CurationHPOTerm{{Accession: "HP:0001250", Term: "Seizure"}}},
		},
	}
}

func TestPublish(t *testing.T) {
	f := newFixture(t)
	curationSvc := NewCurationService(f.db)
	recordSvc := NewRecordService(f.db)

	draft, err := curationSvc.CreateDraft(f.curator, draftJSON("session-publish", f))
	if err != nil {
		t.Fatalf("CreateDraft failed: %v", err)
	}
	stableID := draft.StableID.StableID

	lgd, err := recordSvc.Publish(f.curator, stableID)
	if err != nil {
		t.Fatalf("Publish failed: %v", err)
	}
	if lgd.Confidence.Value != "definitive" {
		t.Errorf("published confidence = %q, want definitive", lgd.Confidence.Value)
	}
	if lgd.Mechanism.Value != "undetermined" {
		t.Errorf("published mechanism = %q, want the undetermined default", lgd.Mechanism.Value)
	}
	if !lgd.StableID.IsLive {
		t.Error("stable ID should be live after publish")
	}

	// the draft is consumed by the publish
	if _, err := curationSvc.GetDraft(f.curator, stableID); err == nil {
		t.Error("expected draft to be gone after publish")
	}

	var historyCount int64
	f.db.Model(&models.HistoryEntry{}).
		Where("lgd_id = ? AND change_type = ?", lgd.ID, models.ChangeCreated).
		Count(&historyCount)
	// record + panel + 2 publications + phenotype at minimum
	if historyCount < 5 {
		t.Errorf("expected at least 5 creation history rows, got %d", historyCount)
	}
}

func TestPublishInvalidGenotypeLeavesNoTrace(t *testing.T) {
	f := newFixture(t)
	curationSvc := NewCurationService(f.db)
	recordSvc := NewRecordService(f.db)

	data := draftJSON("session-bad-genotype", f)
	data.AllelicRequirement = "monoallelic_X_heterozygous" // CTNNB1 is on chromosome 7
	draft, err := curationSvc.CreateDraft(f.curator, data)
	if err != nil {
		t.Fatalf("CreateDraft failed: %v", err)
	}

	_, err = recordSvc.Publish(f.curator, draft.StableID.StableID)
	var validationErr *ValidationError
	if !errors.As(err, &validationErr) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	want := "Invalid genotype 'monoallelic_X_heterozygous' for locus 'CTNNB1'"
	if validationErr.Message != want {
		t.Errorf("message = %q, want %q", validationErr.Message, want)
	}

	// nothing was written and the draft is still there
	var lgdCount int64
	f.db.Model(&models.LocusGenotypeDisease{}).Count(&lgdCount)
	if lgdCount != 0 {
		t.Errorf("expected no records after failed publish, got %d", lgdCount)
	}
	if _, err := curationSvc.GetDraft(f.curator, draft.StableID.StableID); err != nil {
		t.Errorf("draft should survive a failed publish: %v", err)
	}
}

func TestPublishInsufficientPublications(t *testing.T) {
	f := newFixture(t)
	curationSvc := NewCurationService(f.db)
	recordSvc := NewRecordService(f.db)

	data := draftJSON("session-one-pub", f)
	data.Publications = data.Publications[:1]
	draft, err := curationSvc.CreateDraft(f.curator, data)
	if err != nil {
		t.Fatalf("CreateDraft failed: %v", err)
	}

	_, err = recordSvc.Publish(f.curator, draft.StableID.StableID)
	var validationErr *ValidationError
	if !errors.As(err, &validationErr) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	want := "Cannot assign confidence 'definitive' with only 1 publication(s) as evidence"
	if validationErr.Message != want {
		t.Errorf("message = %q, want %q", validationErr.Message, want)
	}
}

func TestPublishDuplicateTuple(t *testing.T) {
	f := newFixture(t)
	curationSvc := NewCurationService(f.db)
	recordSvc := NewRecordService(f.db)

	existing := f.createRecord(t, f.locusAutosomal, f.genotypeBiallelic, f.disease1,
		f.mechUndetermined, f.supInferred, f.confLimited,
		[]*models.Panel{f.panelDD}, []*models.Publication{f.pub1})

	data := draftJSON("session-duplicate", f)
	data.Disease.DiseaseName = f.disease1.Name
	draft, err := curationSvc.CreateDraft(f.curator, data)
	if err != nil {
		t.Fatalf("CreateDraft failed: %v", err)
	}

	_, err = recordSvc.Publish(f.curator, draft.StableID.StableID)
	var conflictErr *ConflictError
	if !errors.As(err, &conflictErr) {
		t.Fatalf("expected ConflictError, got %v", err)
	}
	want := fmt.Sprintf(
		"Found another record with same locus, genotype, disease and mechanism. Please check G2P ID '%s'",
		existing.StableID.StableID)
	if conflictErr.Message != want {
		t.Errorf("message = %q, want %q", conflictErr.Message, want)
	}
}

func TestDeleteCascades(t *testing.T) {
	f := newFixture(t)
	recordSvc := NewRecordService(f.db)

	lgd := f.createRecord(t, f.locusAutosomal, f.genotypeBiallelic, f.disease1,
		f.mechUndetermined, f.supInferred, f.confLimited,
		[]*models.Panel{f.panelDD, f.panelEar}, []*models.Publication{f.pub1, f.pub2})
	if err := f.db.Create(&models.LGDPhenotype{LGDID: lgd.ID, PhenotypeID: f.hpoSeizure.ID}).Error; err != nil {
		t.Fatalf("failed to link phenotype: %v", err)
	}

	if err := recordSvc.Delete(f.superuser, lgd.StableID.StableID); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}

	var reloaded models.LocusGenotypeDisease
	if err := f.db.First(&reloaded, lgd.ID).Error; err != nil {
		t.Fatalf("failed to reload record: %v", err)
	}
	if reloaded.IsDeleted != 1 {
		t.Error("record should be soft-deleted")
	}

	for _, check := range []struct {
		name  string
		model interface{}
	}{
		{"panels", &models.LGDPanel{}},
		{"publications", &models.LGDPublication{}},
		{"phenotypes", &models.LGDPhenotype{}},
	} {
		var active int64
		f.db.Model(check.model).Where("lgd_id = ? AND is_deleted = 0", lgd.ID).Count(&active)
		if active != 0 {
			t.Errorf("expected no active %s after delete, got %d", check.name, active)
		}
	}

	var sid models.G2PStableID
	if err := f.db.First(&sid, lgd.StableIDID).Error; err != nil {
		t.Fatalf("failed to reload stable ID: %v", err)
	}
	if sid.IsLive || sid.IsDeleted != 1 {
		t.Error("stable ID should be retired after delete")
	}

	// the record is gone from the public surface
	if _, err := recordSvc.History(lgd.StableID.StableID); err == nil {
		t.Error("expected deleted record to read as not found")
	}
}

func TestDeleteRequiresPermissionOnEveryPanel(t *testing.T) {
	f := newFixture(t)
	recordSvc := NewRecordService(f.db)

	// curator has permissions on DD only; the record also belongs to Ear
	lgd := f.createRecord(t, f.locusAutosomal, f.genotypeBiallelic, f.disease1,
		f.mechUndetermined, f.supInferred, f.confLimited,
		[]*models.Panel{f.panelDD, f.panelEar}, []*models.Publication{f.pub1})

	err := recordSvc.Delete(f.curator, lgd.StableID.StableID)
	var authErr *AuthorizationError
	if !errors.As(err, &authErr) {
		t.Fatalf("expected AuthorizationError, got %v", err)
	}
}

func TestDeleteWithoutPanelsIsSuperuserOnly(t *testing.T) {
	f := newFixture(t)
	recordSvc := NewRecordService(f.db)

	// no active panels means no panel can grant delete permission
	lgd := f.createRecord(t, f.locusAutosomal, f.genotypeBiallelic, f.disease1,
		f.mechUndetermined, f.supInferred, f.confLimited,
		nil, []*models.Publication{f.pub1})

	err := recordSvc.Delete(f.curator, lgd.StableID.StableID)
	var authErr *AuthorizationError
	if !errors.As(err, &authErr) {
		t.Fatalf("expected AuthorizationError, got %v", err)
	}

	if err := recordSvc.Delete(f.superuser, lgd.StableID.StableID); err != nil {
		t.Fatalf("Delete as superuser failed: %v", err)
	}
}

func TestMerge(t *testing.T) {
	f := newFixture(t)
	recordSvc := NewRecordService(f.db)

	target := f.createRecord(t, f.locusAutosomal, f.genotypeBiallelic, f.disease1,
		f.mechUndetermined, f.supInferred, f.confLimited,
		[]*models.Panel{f.panelDD}, []*models.Publication{f.pub1})
	// the source shares panel DD (dropped on merge) and brings pub2
	source := f.createRecord(t, f.locusAutosomal, f.genotypeXHet, f.disease2,
		f.mechUndetermined, f.supInferred, f.confLimited,
		[]*models.Panel{f.panelDD, f.panelEar}, []*models.Publication{f.pub2})

	result := recordSvc.Merge(f.superuser, []MergeRequest{{
		FinalStableID: target.StableID.StableID,
		StableIDs:     []string{source.StableID.StableID},
	}})
	if len(result.Errors) != 0 {
		t.Fatalf("unexpected merge errors: %v", result.Errors)
	}
	if len(result.Merged) != 1 || result.Merged[0] != source.StableID.StableID {
		t.Fatalf("merged = %v, want [%s]", result.Merged, source.StableID.StableID)
	}

	// source retired with a comment pointing at the target
	var sid models.G2PStableID
	if err := f.db.First(&sid, source.StableIDID).Error; err != nil {
		t.Fatalf("failed to reload source stable ID: %v", err)
	}
	wantComment := fmt.Sprintf("Merged into %s", target.StableID.StableID)
	if sid.Comment != wantComment {
		t.Errorf("stable ID comment = %q, want %q", sid.Comment, wantComment)
	}

	// target gained Ear and pub2; the duplicate DD link was not doubled
	var panelCount int64
	f.db.Model(&models.LGDPanel{}).Where("lgd_id = ? AND is_deleted = 0", target.ID).Count(&panelCount)
	if panelCount != 2 {
		t.Errorf("target panel count = %d, want 2", panelCount)
	}
	var pubCount int64
	f.db.Model(&models.LGDPublication{}).Where("lgd_id = ? AND is_deleted = 0", target.ID).Count(&pubCount)
	if pubCount != 2 {
		t.Errorf("target publication count = %d, want 2", pubCount)
	}

	var merged models.LocusGenotypeDisease
	if err := f.db.First(&merged, source.ID).Error; err != nil {
		t.Fatalf("failed to reload source record: %v", err)
	}
	if merged.IsDeleted != 1 {
		t.Error("source record should be soft-deleted after merge")
	}
}

func TestMergeRecordIntoItself(t *testing.T) {
	f := newFixture(t)
	recordSvc := NewRecordService(f.db)

	lgd := f.createRecord(t, f.locusAutosomal, f.genotypeBiallelic, f.disease1,
		f.mechUndetermined, f.supInferred, f.confLimited,
		[]*models.Panel{f.panelDD}, []*models.Publication{f.pub1})
	stableID := lgd.StableID.StableID

	result := recordSvc.Merge(f.superuser, []MergeRequest{{
		FinalStableID: stableID,
		StableIDs:     []string{stableID},
	}})
	if len(result.Merged) != 0 {
		t.Fatalf("expected no merges, got %v", result.Merged)
	}
	want := fmt.Sprintf("Cannot merge record %s into itself", stableID)
	if len(result.Errors) != 1 || result.Errors[0] != want {
		t.Errorf("errors = %v, want [%s]", result.Errors, want)
	}

	// the surviving record must not be touched
	var reloaded models.LocusGenotypeDisease
	if err := f.db.First(&reloaded, lgd.ID).Error; err != nil {
		t.Fatalf("failed to reload record: %v", err)
	}
	if reloaded.IsDeleted != 0 {
		t.Error("self-merge must not delete the record")
	}
	var sid models.G2PStableID
	if err := f.db.First(&sid, lgd.StableIDID).Error; err != nil {
		t.Fatalf("failed to reload stable ID: %v", err)
	}
	if !sid.IsLive || sid.IsDeleted != 0 {
		t.Error("self-merge must leave the stable ID live")
	}
}

func TestMergeDifferentGenes(t *testing.T) {
	f := newFixture(t)
	recordSvc := NewRecordService(f.db)

	target := f.createRecord(t, f.locusAutosomal, f.genotypeBiallelic, f.disease1,
		f.mechUndetermined, f.supInferred, f.confLimited,
		[]*models.Panel{f.panelDD}, []*models.Publication{f.pub1})
	source := f.createRecord(t, f.locusXLinked, f.genotypeXHet, f.disease2,
		f.mechUndetermined, f.supInferred, f.confLimited,
		[]*models.Panel{f.panelDD}, []*models.Publication{f.pub2})

	result := recordSvc.Merge(f.superuser, []MergeRequest{{
		FinalStableID: target.StableID.StableID,
		StableIDs:     []string{source.StableID.StableID},
	}})
	if len(result.Merged) != 0 {
		t.Fatalf("expected no merges, got %v", result.Merged)
	}
	want := fmt.Sprintf("Cannot merge records %s and %s with different genes",
		source.StableID.StableID, target.StableID.StableID)
	if len(result.Errors) != 1 || result.Errors[0] != want {
		t.Errorf("errors = %v, want [%s]", result.Errors, want)
	}

	// the failed pair left the source untouched
	var reloaded models.LocusGenotypeDisease
	if err := f.db.First(&reloaded, source.ID).Error; err != nil {
		t.Fatalf("failed to reload source: %v", err)
	}
	if reloaded.IsDeleted != 0 {
		t.Error("failed merge must not delete the source record")
	}
}

func TestUpdateConfidence(t *testing.T) {
	f := newFixture(t)
	recordSvc := NewRecordService(f.db)

	lgd := f.createRecord(t, f.locusAutosomal, f.genotypeBiallelic, f.disease1,
		f.mechUndetermined, f.supInferred, f.confLimited,
		[]*models.Panel{f.panelDD}, []*models.Publication{f.pub1})
	stableID := lgd.StableID.StableID

	// same value is a conflict
	_, err := recordSvc.UpdateConfidence(f.curator, stableID, "limited", "")
	var conflictErr *ConflictError
	if !errors.As(err, &conflictErr) {
		t.Fatalf("expected ConflictError for no-op update, got %v", err)
	}

	// definitive needs two publications; the record has one
	_, err = recordSvc.UpdateConfidence(f.curator, stableID, "definitive", "")
	var validationErr *ValidationError
	if !errors.As(err, &validationErr) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	want := "Cannot assign confidence 'definitive' with only 1 publication(s) as evidence"
	if validationErr.Message != want {
		t.Errorf("message = %q, want %q", validationErr.Message, want)
	}

	// with a second paper the upgrade goes through
	if err := recordSvc.AddPublications(f.curator, stableID, []PublicationInput{{PMID: f.pub2.PMID}}); err != nil {
		t.Fatalf("AddPublications failed: %v", err)
	}
	updated, err := recordSvc.UpdateConfidence(f.curator, stableID, "definitive", "two independent cohorts")
	if err != nil {
		t.Fatalf("UpdateConfidence failed: %v", err)
	}
	if updated.Confidence.Value != "definitive" {
		t.Errorf("confidence = %q, want definitive", updated.Confidence.Value)
	}
	if updated.ConfidenceSupport == nil || *updated.ConfidenceSupport != "two independent cohorts" {
		t.Error("justification was not stored")
	}

	var historyCount int64
	f.db.Model(&models.HistoryEntry{}).
		Where("lgd_id = ? AND entity_kind = ? AND change_type = ?", lgd.ID, kindRecord, models.ChangeUpdated).
		Count(&historyCount)
	if historyCount != 1 {
		t.Errorf("expected exactly one record-update history row, got %d", historyCount)
	}
}

func TestUpdateMechanismLock(t *testing.T) {
	f := newFixture(t)
	recordSvc := NewRecordService(f.db)

	// a record whose mechanism is already set cannot have it changed
	locked := f.createRecord(t, f.locusAutosomal, f.genotypeBiallelic, f.disease1,
		f.mechLOF, f.supEvidence, f.confLimited,
		[]*models.Panel{f.panelDD}, []*models.Publication{f.pub1})
	_, err := recordSvc.UpdateMechanism(f.curator, locked.StableID.StableID, MechanismUpdate{
		Mechanism: &MechanismValue{Name: "undetermined"},
	})
	var conflictErr *ConflictError
	if !errors.As(err, &conflictErr) {
		t.Fatalf("expected ConflictError, got %v", err)
	}
	want := fmt.Sprintf("Cannot update 'molecular mechanism' for ID '%s'", locked.StableID.StableID)
	if conflictErr.Message != want {
		t.Errorf("message = %q, want %q", conflictErr.Message, want)
	}

	// an undetermined/inferred record takes the update
	open := f.createRecord(t, f.locusAutosomal, f.genotypeXHet, f.disease2,
		f.mechUndetermined, f.supInferred, f.confLimited,
		[]*models.Panel{f.panelDD}, []*models.Publication{f.pub1})
	updated, err := recordSvc.UpdateMechanism(f.curator, open.StableID.StableID, MechanismUpdate{
		Mechanism: &MechanismValue{Name: "loss of function"},
		Synopses:  []MechanismValue{{Name: "destabilising LOF"}},
	})
	if err != nil {
		t.Fatalf("UpdateMechanism failed: %v", err)
	}
	if updated.Mechanism.Value != "loss of function" {
		t.Errorf("mechanism = %q, want loss of function", updated.Mechanism.Value)
	}

	// and is now locked in turn
	_, err = recordSvc.UpdateMechanism(f.curator, open.StableID.StableID, MechanismUpdate{
		Mechanism: &MechanismValue{Name: "undetermined"},
	})
	if !errors.As(err, &conflictErr) {
		t.Fatalf("expected ConflictError after mechanism was set, got %v", err)
	}
}

func TestUpdateMechanismRejectsIncompatibleSynopsis(t *testing.T) {
	f := newFixture(t)
	recordSvc := NewRecordService(f.db)

	lgd := f.createRecord(t, f.locusAutosomal, f.genotypeBiallelic, f.disease1,
		f.mechLOF, f.supEvidence, f.confLimited,
		[]*models.Panel{f.panelDD}, []*models.Publication{f.pub1})

	// synopsis-only updates are allowed on a locked mechanism, but the
	// synopsis still has to match it
	_, err := recordSvc.UpdateMechanism(f.curator, lgd.StableID.StableID, MechanismUpdate{
		Synopses: []MechanismValue{{Name: "aggregation"}},
	})
	var validationErr *ValidationError
	if !errors.As(err, &validationErr) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	want := "The categorisation 'aggregation' is not compatible with the mechanism 'loss of function'"
	if validationErr.Message != want {
		t.Errorf("message = %q, want %q", validationErr.Message, want)
	}
}

func TestRemovePanelFloor(t *testing.T) {
	f := newFixture(t)
	recordSvc := NewRecordService(f.db)

	lgd := f.createRecord(t, f.locusAutosomal, f.genotypeBiallelic, f.disease1,
		f.mechUndetermined, f.supInferred, f.confLimited,
		[]*models.Panel{f.panelDD}, []*models.Publication{f.pub1})
	stableID := lgd.StableID.StableID

	// last panel cannot go
	err := recordSvc.RemovePanel(f.superuser, stableID, "DD")
	var validationErr *ValidationError
	if !errors.As(err, &validationErr) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	want := fmt.Sprintf("Can not delete panel 'DD' for ID '%s'", stableID)
	if validationErr.Message != want {
		t.Errorf("message = %q, want %q", validationErr.Message, want)
	}

	// a panel that is not linked reads as missing, not as a floor
	err = recordSvc.RemovePanel(f.superuser, stableID, "Ear")
	var notFoundErr *NotFoundError
	if !errors.As(err, &notFoundErr) {
		t.Fatalf("expected NotFoundError, got %v", err)
	}
	wantMissing := fmt.Sprintf("Panel 'Ear' does not exist for ID '%s'", stableID)
	if notFoundErr.Message != wantMissing {
		t.Errorf("message = %q, want %q", notFoundErr.Message, wantMissing)
	}

	// with a second panel the removal works
	if err := recordSvc.AddPanel(f.superuser, stableID, "Ear"); err != nil {
		t.Fatalf("AddPanel failed: %v", err)
	}
	if err := recordSvc.RemovePanel(f.superuser, stableID, "DD"); err != nil {
		t.Fatalf("RemovePanel failed: %v", err)
	}
}

func TestRemovePublicationFloor(t *testing.T) {
	f := newFixture(t)
	recordSvc := NewRecordService(f.db)

	lgd := f.createRecord(t, f.locusAutosomal, f.genotypeBiallelic, f.disease1,
		f.mechUndetermined, f.supInferred, f.confLimited,
		[]*models.Panel{f.panelDD}, []*models.Publication{f.pub1})

	err := recordSvc.RemovePublication(f.curator, lgd.StableID.StableID, f.pub1.PMID)
	var validationErr *ValidationError
	if !errors.As(err, &validationErr) {
		t.Fatalf("expected ValidationError for last publication, got %v", err)
	}
}

func TestStableIDSequence(t *testing.T) {
	f := newFixture(t)
	curationSvc := NewCurationService(f.db)

	first, err := curationSvc.CreateDraft(f.curator, draftJSON("session-a", f))
	if err != nil {
		t.Fatalf("CreateDraft failed: %v", err)
	}
	second, err := curationSvc.CreateDraft(f.curator, draftJSON("session-b", f))
	if err != nil {
		t.Fatalf("CreateDraft failed: %v", err)
	}

	if first.StableID.StableID != "G2P00001" {
		t.Errorf("first stable ID = %q, want G2P00001", first.StableID.StableID)
	}
	if second.StableID.StableID != "G2P00002" {
		t.Errorf("second stable ID = %q, want G2P00002", second.StableID.StableID)
	}
	if first.StableID.IsLive || second.StableID.IsLive {
		t.Error("draft stable IDs must not be live")
	}
}
