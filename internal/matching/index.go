package matching

import (
	"sort"

	"github.com/google/uuid"
	"github.com/samber/lo"

	"github.com/MrJamesThe3rd/costline/internal/project"
)

// Owner is a project that registered a variant, and the alias it came from.
// Derived is set when the variant was split or stripped out of the alias
// rather than being the alias itself.
type Owner struct {
	Project *project.Project
	Alias   string
	Derived bool
}

// Index maps every variant of every registered alias to the projects that
// own it. It is built once per ingestion so the whole batch sees one
// consistent view of the registry.
type Index struct {
	owners   map[string][]Owner
	variants []string
	projects int
}

func NewIndex(projects []*project.Project) *Index {
	idx := &Index{
		owners:   make(map[string][]Owner),
		projects: len(projects),
	}

	// claimed[v][id] is the position of the project's owner entry for v.
	claimed := make(map[string]map[uuid.UUID]int)

	for _, p := range projects {
		for _, alias := range p.Aliases {
			for i, v := range Variants(alias) {
				own := Owner{Project: p, Alias: alias, Derived: i > 0}

				if claimed[v] == nil {
					claimed[v] = make(map[uuid.UUID]int)
				}

				if at, dup := claimed[v][p.ID]; dup {
					if idx.owners[v][at].Derived && !own.Derived {
						idx.owners[v][at] = own
					}

					continue
				}

				claimed[v][p.ID] = len(idx.owners[v])
				idx.owners[v] = append(idx.owners[v], own)
			}
		}
	}

	// A project that registered the variant verbatim outranks projects that
	// only reach it through a split or a stripped suffix.
	for v, owners := range idx.owners {
		direct := lo.Filter(owners, func(o Owner, _ int) bool { return !o.Derived })
		if len(direct) > 0 {
			idx.owners[v] = direct
		}
	}

	idx.variants = make([]string, 0, len(idx.owners))
	for v := range idx.owners {
		idx.variants = append(idx.variants, v)
	}

	// Shorter variants first so fuzzy ties resolve toward the more generic
	// alias; lexical order keeps scans deterministic.
	sort.Slice(idx.variants, func(i, j int) bool {
		if len(idx.variants[i]) != len(idx.variants[j]) {
			return len(idx.variants[i]) < len(idx.variants[j])
		}

		return idx.variants[i] < idx.variants[j]
	})

	return idx
}

// Lookup returns the owners of an exact variant. When any project registered
// the variant verbatim, only those projects are returned.
func (i *Index) Lookup(variant string) []Owner {
	return i.owners[variant]
}

// Variants returns every indexed variant, shortest first.
func (i *Index) Variants() []string {
	return i.variants
}

// Projects is the number of projects the index was built from.
func (i *Index) Projects() int {
	return i.projects
}
