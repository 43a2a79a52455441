package mcpserver

// DocFormatContract describes the canonical Markdown document format that
// authored documentation should follow so the parser extracts the most
// structure from it.
const DocFormatContract = `# Ansuz Document Format Contract

Documentation files served by Ansuz SHOULD follow this structure.

## Structure

` + "```" + `markdown
---
title: Human-readable title         # recommended; "Untitled" when absent
description: One-line summary       # optional
category: guides                    # optional; used for list filtering
author: Jane Doe                    # optional
dateCreated: 2025-01-15             # optional
dateModified: 2025-03-02            # optional
version: 1.2.0                      # optional
tags:                               # optional; block or inline [a, b] array
  - tag-one
  - tag-two
relatedDocs:                        # optional; ids of related documents
  - guides/setup
---

Body text in standard Markdown.
` + "```" + `

## Rules

1. The frontmatter fences must be the first thing in the file — a line of
   exactly ` + "`---`" + `, with no leading blank lines.
2. Values may be plain scalars, quoted scalars, inline arrays, block
   arrays, or block scalars (` + "`|`" + ` / ` + "`>`" + `). Unknown keys are ignored.
3. Headings use ATX (` + "`#`" + ` to ` + "`######`" + `) or Setext (underlines of ` + "`=`" + ` or ` + "`-`" + `) style.
   Heading ids are derived slugs, so keep heading text unique within a document.
4. Code samples use triple-backtick fences with a language tag
   (` + "```" + `go, ` + "```" + `bash, ...); untagged fences are treated as plain text.
   Always close fences — an unterminated fence is dropped from the parse.
5. Internal links point at document paths or ids without a scheme
   (` + "`[setup](guides/setup.md)`" + `); external links use http/https URLs.
6. File paths end with ` + "`.md`" + ` and use forward slashes. The document id is
   the path after the ` + "`/docs/`" + ` segment, without the extension.
7. Encoding is UTF-8 with a trailing newline.
`
