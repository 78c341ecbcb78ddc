package sampling

// Observer receives selection diagnostics as they happen
type Observer interface {
	// Bucket is called once per distribution category before sampling
	Bucket(c Category, size, quota int)
	// Shortfall is called when a category holds fewer entries than its quota
	Shortfall(c Category, available, quota int)
	// Deficit is called when the per-category samples fall short of the target
	Deficit(deficit, remaining int)
	// Filled reports how many deficit-fill entries came from a category
	Filled(c Category, n int)
}

// CategoryStats summarizes one category of a selection
type CategoryStats struct {
	Category  Category
	Bucket    int
	Quota     int
	Sampled   int
	Shortfall int
	Filled    int
}

// Selected returns the entries of this category in the final selection
func (s CategoryStats) Selected() int {
	return s.Sampled + s.Filled
}

// Report collects diagnostics of a single selection. It implements Observer.
type Report struct {
	Categories []CategoryStats
	// DeficitCount is the gap left after per-category sampling
	DeficitCount int
	// FillCount is the number of entries drawn to cover the deficit
	FillCount int
}

func (r *Report) stats(c Category) *CategoryStats {
	for i := range r.Categories {
		if r.Categories[i].Category == c {
			return &r.Categories[i]
		}
	}
	r.Categories = append(r.Categories, CategoryStats{Category: c})
	return &r.Categories[len(r.Categories)-1]
}

func (r *Report) Bucket(c Category, size, quota int) {
	s := r.stats(c)
	s.Bucket = size
	s.Quota = quota
	s.Sampled = min(size, quota)
}

func (r *Report) Shortfall(c Category, available, quota int) {
	r.stats(c).Shortfall = quota - available
}

func (r *Report) Deficit(deficit, remaining int) {
	r.DeficitCount = deficit
	r.FillCount = min(deficit, remaining)
}

func (r *Report) Filled(c Category, n int) {
	r.stats(c).Filled += n
}

// Total returns the number of selected entries, including the deficit fill
func (r *Report) Total() int {
	total := 0
	for _, s := range r.Categories {
		total += s.Selected()
	}
	return total
}

// Lookup returns the stats of a category
func (r *Report) Lookup(c Category) (CategoryStats, bool) {
	for _, s := range r.Categories {
		if s.Category == c {
			return s, true
		}
	}
	return CategoryStats{Category: c}, false
}

type multiObserver []Observer

func (m multiObserver) Bucket(c Category, size, quota int) {
	for _, o := range m {
		o.Bucket(c, size, quota)
	}
}

func (m multiObserver) Shortfall(c Category, available, quota int) {
	for _, o := range m {
		o.Shortfall(c, available, quota)
	}
}

func (m multiObserver) Deficit(deficit, remaining int) {
	for _, o := range m {
		o.Deficit(deficit, remaining)
	}
}

func (m multiObserver) Filled(c Category, n int) {
	for _, o := range m {
		o.Filled(c, n)
	}
}

// Observers fans diagnostics out to several observers. Nil observers are skipped.
func Observers(obs ...Observer) Observer {
	var m multiObserver
	for _, o := range obs {
		if o != nil {
			m = append(m, o)
		}
	}
	return m
}

type nopObserver struct{}

func (nopObserver) Bucket(Category, int, int)    {}
func (nopObserver) Shortfall(Category, int, int) {}
func (nopObserver) Deficit(int, int)             {}
func (nopObserver) Filled(Category, int)         {}
