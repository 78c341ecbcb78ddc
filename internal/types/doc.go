/*
Package types defines core data structures used throughout harsample.

# Overview

The types package provides shared type definitions for:
  - HAR captures (the input)
  - Benchmark test cases (the output)
  - Run records (the history store)

# Capture Types

HARFile, HARLog, HAREntry:
  - Mirror the HAR 1.2 JSON layout
  - Only the fields used for filtering and conversion are decoded
  - HAREntry.MimeType returns the response content type used for sampling

# Test Case Types

TestCase, RequestData, ResponseData:
  - The fixture schema consumed by the protocol benchmark
  - Header names are lower-case, HTTP/2 pseudo-headers are dropped
  - Bodies are optional and omitted when empty

Example:

	{
	  "name": "Request 1: GET /api/v1/user",
	  "description": "GET api.example.com/api/v1/user - Status 200",
	  "request": {
	    "method": "GET",
	    "host": "api.example.com",
	    "path": "/api/v1/user",
	    "headers": {"accept": "application/json"}
	  },
	  "response": {
	    "statusCode": 200,
	    "headers": {"content-type": "application/json"}
	  }
	}

# Run Types

Run and RunCategory record each generate invocation in the history
database: inputs (sources, seed, limit), sizes at each pipeline stage, and
the per-category bucket, quota and selection counts.

# Field Tags

Test case and run types carry both JSON and YAML tags so generated fixtures
can be written in either format.
*/
package types
