// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package taxonomy defines the fixed set of academic-paper section labels
// and the registry that maps each label to its description and category.
package taxonomy

// Label names one academic-paper section the classifier can detect.
type Label string

const (
	Abstract        Label = "Abstract"
	Introduction    Label = "Introduction"
	RelatedWork     Label = "Related Work"
	Methodology     Label = "Methodology"
	Architecture    Label = "Architecture"
	Experiments     Label = "Experiments"
	Results         Label = "Results"
	Discussion      Label = "Discussion"
	Conclusion      Label = "Conclusion"
	References      Label = "References"
	FutureWork      Label = "Future Work"
	Limitations     Label = "Limitations"
	Datasets        Label = "Datasets"
	Implementation  Label = "Implementation"
	Contributions   Label = "Contributions"
	AblationStudy   Label = "Ablation Study"
	Baselines       Label = "Baselines"
	TrainingDetails Label = "Training Details"
)

// Category groups labels for display.
type Category string

const (
	PaperStructure   Category = "Paper Structure"
	ResearchContent  Category = "Research Content"
	TechnicalDetails Category = "Technical Details"
	Analysis         Category = "Analysis"
	Supporting       Category = "Supporting"
	General          Category = "General"
)

// DefaultDescription is returned by Describe for labels missing from the registry.
const DefaultDescription = "Common section in academic papers"

// Entry is the metadata registered for one label.
type Entry struct {
	Label       Label
	Description string
	Category    Category
}

// entries is the reference taxonomy, in the order labels are listed.
var entries = []Entry{
	{Abstract, "Brief summary of the entire paper", PaperStructure},
	{Introduction, "Background and motivation for the research", PaperStructure},
	{RelatedWork, "Review of existing literature and prior research", ResearchContent},
	{Methodology, "Detailed description of research methods", ResearchContent},
	{Architecture, "Model structure and technical design", TechnicalDetails},
	{Experiments, "Experimental setup and evaluation procedures", ResearchContent},
	{Results, "Findings and performance metrics", ResearchContent},
	{Discussion, "Interpretation and analysis of results", Analysis},
	{Conclusion, "Summary of findings and final remarks", PaperStructure},
	{References, "Citations and bibliography", Supporting},
	{FutureWork, "Proposed directions for future research", Analysis},
	{Limitations, "Acknowledged constraints and limitations", Analysis},
	{Datasets, "Data sources and benchmark information", TechnicalDetails},
	{Implementation, "Technical implementation details", TechnicalDetails},
	{Contributions, "Key contributions of the research", ResearchContent},
	{AblationStudy, "Component-wise performance analysis", Analysis},
	{Baselines, "Comparison with existing methods", ResearchContent},
	{TrainingDetails, "Hyperparameters and training configuration", TechnicalDetails},
}

// Registry maps labels to their description and category. A Registry is
// immutable after construction and safe for concurrent reads.
type Registry struct {
	order  []Label
	byName map[Label]Entry
}

// NewRegistry builds a registry from the reference taxonomy.
func NewRegistry() *Registry {
	return NewRegistryFrom(entries)
}

// NewRegistryFrom builds a registry from the given entries. Later entries
// replace earlier ones with the same label.
func NewRegistryFrom(list []Entry) *Registry {
	r := &Registry{byName: make(map[Label]Entry, len(list))}
	for _, e := range list {
		if _, ok := r.byName[e.Label]; !ok {
			r.order = append(r.order, e.Label)
		}
		r.byName[e.Label] = e
	}
	return r
}

// Describe returns the description and category for label. Labels that
// are not registered get DefaultDescription and General.
func (r *Registry) Describe(label Label) (string, Category) {
	if e, ok := r.byName[label]; ok {
		return e.Description, e.Category
	}
	return DefaultDescription, General
}

// Has reports whether label is registered.
func (r *Registry) Has(label Label) bool {
	_, ok := r.byName[label]
	return ok
}

// Labels returns the registered labels in taxonomy order.
func (r *Registry) Labels() []Label {
	out := make([]Label, len(r.order))
	copy(out, r.order)
	return out
}

// Len returns the number of registered labels.
func (r *Registry) Len() int { return len(r.order) }

// ByCategory groups registered entries by category, preserving taxonomy
// order within each group. The returned category slice lists categories
// in order of first appearance.
func (r *Registry) ByCategory() ([]Category, map[Category][]Entry) {
	var cats []Category
	groups := make(map[Category][]Entry)
	for _, l := range r.order {
		e := r.byName[l]
		if _, ok := groups[e.Category]; !ok {
			cats = append(cats, e.Category)
		}
		groups[e.Category] = append(groups[e.Category], e)
	}
	return cats, groups
}
