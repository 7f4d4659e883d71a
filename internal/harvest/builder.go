package harvest

import (
	"context"
	"fmt"
	"log"
	"sort"
	"strings"

	"github.com/benjamin-asch/quantum-rankings/internal/dataset"
)

// BuildConfig controls one harvest run. Zero thresholds keep everything.
type BuildConfig struct {
	Venues                  []VenueConfig
	StartYear               int
	EndYear                 int
	MinPapersPerAuthor      int
	MinPapersPerInstitution int
	MaxInstitutions         int
	MaxPagesPerSource       int
}

// Builder drives the venue-first harvest: DBLP conference streams resolved
// through OpenAlex, journals harvested from OpenAlex directly, then
// per-(author, institution) aggregation into the frontend dataset schema.
type Builder struct {
	dblp     *DBLPClient
	openalex *OpenAlexClient
}

func NewBuilder(dblp *DBLPClient, openalex *OpenAlexClient) *Builder {
	return &Builder{dblp: dblp, openalex: openalex}
}

type authorKey struct {
	authorID string
	instID   string
}

type authorAgg struct {
	name   string
	instID string
	pubs   []dataset.Publication
}

type harvestState struct {
	institutions map[string]dataset.Institution
	authors      map[authorKey]*authorAgg
	venues       []dataset.Venue
	seenWorks    map[string]bool
}

func (b *Builder) Build(ctx context.Context, cfg BuildConfig) (*dataset.Dataset, error) {
	if cfg.EndYear < cfg.StartYear {
		return nil, fmt.Errorf("invalid year range [%d, %d]", cfg.StartYear, cfg.EndYear)
	}
	st := &harvestState{
		institutions: map[string]dataset.Institution{},
		authors:      map[authorKey]*authorAgg{},
		seenWorks:    map[string]bool{},
	}

	for _, vcfg := range cfg.Venues {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		switch {
		case vcfg.DBLPVenue != "":
			log.Printf("harvest venue %s: via dblp stream %q", vcfg.Code, vcfg.DBLPVenue)
			b.harvestConference(ctx, vcfg, cfg, st)
		case len(vcfg.SourceIDs) > 0:
			log.Printf("harvest venue %s: via %d openalex source(s)", vcfg.Code, len(vcfg.SourceIDs))
			b.harvestJournal(ctx, vcfg, cfg, st)
		default:
			log.Printf("harvest venue %s: neither dblp venue nor source ids configured; skipping", vcfg.Code)
			continue
		}
		st.venues = append(st.venues, dataset.Venue{Code: vcfg.Code, Name: vcfg.Name})
	}

	return assemble(st, cfg), nil
}

// harvestConference bridges DBLP to OpenAlex: cheap title prefilter first
// so obviously classical papers never cost an API call, then DOI
// resolution with title search as fallback.
func (b *Builder) harvestConference(ctx context.Context, vcfg VenueConfig, cfg BuildConfig, st *harvestState) {
	papers := b.dblp.ConferencePapers(ctx, vcfg.DBLPVenue, cfg.StartYear, cfg.EndYear)
	prefiltered, resolved := 0, 0
	for _, paper := range papers {
		if vcfg.RequireKeywords && !titleLooksQuantum(paper.Title) {
			prefiltered++
			continue
		}
		work, ok, err := b.resolveWork(ctx, paper)
		if err != nil {
			log.Printf("harvest %s: resolve %q (%d): %v", vcfg.Code, truncate(paper.Title, 80), paper.Year, err)
			continue
		}
		if !ok {
			log.Printf("harvest %s: no openalex work for %q (%d)", vcfg.Code, truncate(paper.Title, 80), paper.Year)
			continue
		}
		resolved++

		if work.ID != "" && st.seenWorks[work.ID] {
			continue
		}
		if work.ID != "" {
			st.seenWorks[work.ID] = true
		}
		year := work.Year
		if year == 0 {
			year = paper.Year
		}
		if year < cfg.StartYear || year > cfg.EndYear {
			continue
		}
		if !isQuantumWork(work, vcfg.RequireKeywords) {
			continue
		}
		title := strings.TrimSpace(work.Title)
		if title == "" {
			title = strings.TrimSpace(paper.Title)
		}
		if title == "" {
			title = "(untitled)"
		}
		attach(st, work, dataset.Publication{Year: year, Venue: vcfg.Code, Title: title})
	}
	log.Printf("harvest %s: %d candidates, %d prefiltered by title, %d resolved",
		vcfg.Code, len(papers), prefiltered, resolved)
}

func (b *Builder) resolveWork(ctx context.Context, paper DBLPPaper) (Work, bool, error) {
	if paper.DOI != "" {
		work, ok, err := b.openalex.WorkByDOI(ctx, paper.DOI)
		if err != nil || ok {
			return work, ok, err
		}
	}
	return b.openalex.SearchWorkByTitle(ctx, paper.Title, paper.Year)
}

func (b *Builder) harvestJournal(ctx context.Context, vcfg VenueConfig, cfg BuildConfig, st *harvestState) {
	titleFilter := ""
	if vcfg.RequireKeywords {
		titleFilter = TitleFilter(QuantumKeywords)
	}
	for _, sourceID := range vcfg.SourceIDs {
		err := b.openalex.WorksForSource(ctx, sourceID, cfg.StartYear, cfg.EndYear, cfg.MaxPagesPerSource, titleFilter, func(work Work) error {
			if work.ID != "" && st.seenWorks[work.ID] {
				return nil
			}
			if work.ID != "" {
				st.seenWorks[work.ID] = true
			}
			if work.Year == 0 {
				return nil
			}
			if !isQuantumWork(work, vcfg.RequireKeywords) {
				return nil
			}
			title := strings.TrimSpace(work.Title)
			if title == "" {
				title = "(untitled)"
			}
			attach(st, work, dataset.Publication{Year: work.Year, Venue: vcfg.Code, Title: title})
			return nil
		})
		if err != nil {
			log.Printf("harvest %s: source %s failed: %v", vcfg.Code, sourceID, err)
		}
	}
}

// attach records the publication under every (author, institution) pair on
// the work, registering unseen institutions. Co-authored papers count once
// per tracked author: attribution is per-author, not per-paper.
func attach(st *harvestState, work Work, pub dataset.Publication) {
	for _, auth := range work.Authorships {
		if auth.AuthorID == "" || len(auth.Institutions) == 0 {
			continue
		}
		name := auth.AuthorName
		if name == "" {
			name = "Unknown"
		}
		for _, inst := range auth.Institutions {
			if inst.ID == "" {
				continue
			}
			if _, ok := st.institutions[inst.ID]; !ok {
				instName := inst.Name
				if instName == "" {
					instName = "Unknown institution"
				}
				st.institutions[inst.ID] = dataset.Institution{
					Name:   instName,
					Region: RegionFromCountry(inst.CountryCode),
				}
			}
			key := authorKey{authorID: auth.AuthorID, instID: inst.ID}
			agg := st.authors[key]
			if agg == nil {
				agg = &authorAgg{name: name, instID: inst.ID}
				st.authors[key] = agg
			}
			if !hasPublication(agg.pubs, pub) {
				agg.pubs = append(agg.pubs, pub)
			}
		}
	}
}

func hasPublication(pubs []dataset.Publication, pub dataset.Publication) bool {
	for _, p := range pubs {
		if p == pub {
			return true
		}
	}
	return false
}

// assemble applies the per-author and per-institution thresholds, caps to
// the most prolific institutions, renames institution ids to sequential
// inst0..instN keys in name order, and emits the dataset.
func assemble(st *harvestState, cfg BuildConfig) *dataset.Dataset {
	authors := map[authorKey]*authorAgg{}
	for key, agg := range st.authors {
		if len(agg.pubs) >= cfg.MinPapersPerAuthor {
			authors[key] = agg
		}
	}
	log.Printf("harvest summary: institutions=%d author-institution pairs=%d (after min-papers filter)",
		len(st.institutions), len(authors))

	totals := map[string]int{}
	for _, agg := range authors {
		totals[agg.instID] += len(agg.pubs)
	}

	keep := map[string]bool{}
	for instID, total := range totals {
		if total >= cfg.MinPapersPerInstitution {
			keep[instID] = true
		}
	}
	if cfg.MaxInstitutions > 0 && len(keep) > cfg.MaxInstitutions {
		ids := make([]string, 0, len(keep))
		for id := range keep {
			ids = append(ids, id)
		}
		sort.Slice(ids, func(i, j int) bool {
			if totals[ids[i]] != totals[ids[j]] {
				return totals[ids[i]] > totals[ids[j]]
			}
			return ids[i] < ids[j]
		})
		keep = map[string]bool{}
		for _, id := range ids[:cfg.MaxInstitutions] {
			keep[id] = true
		}
	}

	type namedInst struct {
		id   string
		info dataset.Institution
	}
	var kept []namedInst
	for id, info := range st.institutions {
		if keep[id] {
			kept = append(kept, namedInst{id: id, info: info})
		}
	}
	sort.Slice(kept, func(i, j int) bool {
		if kept[i].info.Name != kept[j].info.Name {
			return kept[i].info.Name < kept[j].info.Name
		}
		return kept[i].id < kept[j].id
	})

	idToKey := map[string]string{}
	institutionsOut := map[string]dataset.Institution{}
	for i, inst := range kept {
		key := fmt.Sprintf("inst%d", i)
		idToKey[inst.id] = key
		institutionsOut[key] = inst.info
	}

	var authorsOut []dataset.Author
	for _, agg := range authors {
		instKey, ok := idToKey[agg.instID]
		if !ok {
			continue
		}
		pubs := make([]dataset.Publication, len(agg.pubs))
		copy(pubs, agg.pubs)
		sort.Slice(pubs, func(i, j int) bool {
			if pubs[i].Year != pubs[j].Year {
				return pubs[i].Year < pubs[j].Year
			}
			if pubs[i].Venue != pubs[j].Venue {
				return pubs[i].Venue < pubs[j].Venue
			}
			return pubs[i].Title < pubs[j].Title
		})
		authorsOut = append(authorsOut, dataset.Author{
			Name:         agg.name,
			Institution:  instKey,
			Publications: pubs,
		})
	}
	sort.Slice(authorsOut, func(i, j int) bool {
		if authorsOut[i].Name != authorsOut[j].Name {
			return authorsOut[i].Name < authorsOut[j].Name
		}
		return authorsOut[i].Institution < authorsOut[j].Institution
	})

	log.Printf("harvest summary: institutions=%d authors=%d after institution-level filters",
		len(institutionsOut), len(authorsOut))

	return &dataset.Dataset{
		Venues:       st.venues,
		Institutions: institutionsOut,
		Authors:      authorsOut,
	}
}

// titleLooksQuantum is the cheap prefilter applied before any OpenAlex
// resolution for keyword-gated venues.
func titleLooksQuantum(title string) bool {
	t := strings.ToLower(title)
	if t == "" {
		return false
	}
	for _, kw := range QuantumKeywords {
		if strings.Contains(t, kw) {
			return true
		}
	}
	return false
}

// isQuantumWork applies the main gate over title plus flattened abstract
// tokens. Pure quantum venues accept everything.
func isQuantumWork(w Work, requireKeywords bool) bool {
	if !requireKeywords {
		return true
	}
	text := strings.ToLower(w.Title + " " + strings.Join(w.AbstractTokens, " "))
	for _, kw := range QuantumKeywords {
		if strings.Contains(text, kw) {
			return true
		}
	}
	return false
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
