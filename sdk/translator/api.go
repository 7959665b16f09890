package translator

import "sort"

// TranslationInfo describes what is registered for one from->to pair.
type TranslationInfo struct {
	From          Format `json:"from"`
	To            Format `json:"to"`
	HasRequest    bool   `json:"has_request"`
	HasResponse   bool   `json:"has_response"`
	HasStream     bool   `json:"has_stream"`
	HasNonStream  bool   `json:"has_non_stream"`
	HasTokenCount bool   `json:"has_token_count"`
}

// GetCompatibilityMatrix maps each source format to its sorted list of
// reachable target formats, considering both request and response transforms.
func (r *Registry) GetCompatibilityMatrix() map[string][]string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	matrix := make(map[string]map[string]struct{})
	add := func(from, to Format) {
		if _, ok := matrix[from.String()]; !ok {
			matrix[from.String()] = make(map[string]struct{})
		}
		matrix[from.String()][to.String()] = struct{}{}
	}
	for from, targets := range r.requests {
		for to := range targets {
			add(from, to)
		}
	}
	for from, targets := range r.responses {
		for to := range targets {
			add(from, to)
		}
	}

	out := make(map[string][]string, len(matrix))
	for from, targets := range matrix {
		list := make([]string, 0, len(targets))
		for to := range targets {
			list = append(list, to)
		}
		sort.Strings(list)
		out[from] = list
	}
	return out
}

// GetSupportedFormats returns every format that appears as a source or
// target of any registered transform, sorted by name.
func (r *Registry) GetSupportedFormats() []Format {
	r.mu.RLock()
	defer r.mu.RUnlock()

	set := make(map[Format]struct{})
	for from, targets := range r.requests {
		set[from] = struct{}{}
		for to := range targets {
			set[to] = struct{}{}
		}
	}
	for from, targets := range r.responses {
		set[from] = struct{}{}
		for to := range targets {
			set[to] = struct{}{}
		}
	}

	formats := make([]Format, 0, len(set))
	for f := range set {
		formats = append(formats, f)
	}
	sort.Slice(formats, func(i, j int) bool { return formats[i] < formats[j] })
	return formats
}

// IsTranslationSupported reports whether any transform, request or response,
// is registered for the pair.
func (r *Registry) IsTranslationSupported(from, to Format) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if byTarget, ok := r.requests[from]; ok {
		if _, exists := byTarget[to]; exists {
			return true
		}
	}
	if byTarget, ok := r.responses[from]; ok {
		if _, exists := byTarget[to]; exists {
			return true
		}
	}
	return false
}

// GetTranslationInfo reports per-slot registration detail for one pair.
func (r *Registry) GetTranslationInfo(from, to Format) *TranslationInfo {
	r.mu.RLock()
	defer r.mu.RUnlock()

	info := &TranslationInfo{From: from, To: to}
	if byTarget, ok := r.requests[from]; ok {
		_, info.HasRequest = byTarget[to]
	}
	if byTarget, ok := r.responses[from]; ok {
		if resp, exists := byTarget[to]; exists {
			info.HasResponse = true
			info.HasStream = resp.Stream != nil
			info.HasNonStream = resp.NonStream != nil
			info.HasTokenCount = resp.TokenCount != nil
		}
	}
	return info
}

// GetAllTranslations lists every registered pair, sorted by source then target.
func (r *Registry) GetAllTranslations() []TranslationInfo {
	r.mu.RLock()
	defer r.mu.RUnlock()

	pairs := make(map[[2]Format]*TranslationInfo)
	get := func(from, to Format) *TranslationInfo {
		key := [2]Format{from, to}
		if info, ok := pairs[key]; ok {
			return info
		}
		info := &TranslationInfo{From: from, To: to}
		pairs[key] = info
		return info
	}
	for from, targets := range r.requests {
		for to := range targets {
			get(from, to).HasRequest = true
		}
	}
	for from, targets := range r.responses {
		for to, resp := range targets {
			info := get(from, to)
			info.HasResponse = true
			info.HasStream = resp.Stream != nil
			info.HasNonStream = resp.NonStream != nil
			info.HasTokenCount = resp.TokenCount != nil
		}
	}

	result := make([]TranslationInfo, 0, len(pairs))
	for _, info := range pairs {
		result = append(result, *info)
	}
	sort.Slice(result, func(i, j int) bool {
		if result[i].From != result[j].From {
			return result[i].From < result[j].From
		}
		return result[i].To < result[j].To
	})
	return result
}

// GetCompatibilityMatrix reports the default registry's matrix.
func GetCompatibilityMatrix() map[string][]string {
	return defaultRegistry.GetCompatibilityMatrix()
}

// GetSupportedFormats reports the default registry's formats.
func GetSupportedFormats() []Format {
	return defaultRegistry.GetSupportedFormats()
}

// IsTranslationSupported inspects the default registry.
func IsTranslationSupported(from, to Format) bool {
	return defaultRegistry.IsTranslationSupported(from, to)
}

// GetTranslationInfo inspects the default registry.
func GetTranslationInfo(from, to Format) *TranslationInfo {
	return defaultRegistry.GetTranslationInfo(from, to)
}

// GetAllTranslations lists the default registry's pairs.
func GetAllTranslations() []TranslationInfo {
	return defaultRegistry.GetAllTranslations()
}
