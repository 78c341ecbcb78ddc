/*
Package sampling selects a bounded, content-type balanced sample of captured
HTTP entries.

# Overview

The package has two parts:
  - Categorizer: maps a content-type label to one of a fixed set of categories
  - Select: stratified sampling over those categories

# Categorization

Labels are lower-cased and tested against an ordered rule list. The first
rule whose pattern occurs in the label wins:

	json -> html -> javascript -> css -> image -> other

Categorization is total. Empty and unknown labels map to CategoryOther.

# Selection

Select works in five steps:
 1. Partition entries into per-category buckets, preserving input order
 2. Compute quotas as floor(target * proportion); the rounding remainder goes
    to a single absorber category (json by default)
 3. Draw min(quota, bucket size) entries per category without replacement,
    in distribution order
 4. If the sample is still short of the target, draw the deficit from every
    entry not yet chosen, regardless of category
 5. Return the per-category samples followed by the deficit fill

The output length is always min(target, len(entries)) and no entry is chosen
twice. Entry identity is its position in the input slice.

# Determinism

Select takes an explicit *rand.Rand. All draws are made from that stream in a
fixed order, so the same entries, target, config and seed always produce the
same output. There is no package-level random state, which makes concurrent
selections safe as long as each uses its own stream.

# Diagnostics

Bucket sizes, quotas, availability shortfalls and the deficit are reported
through an Observer. Report collects them into a value:

	report := &sampling.Report{}
	cfg := sampling.Config{Observer: report}
	picked, err := sampling.SelectSeeded(entries, mimeOf, 100, cfg, 42)
*/
package sampling
