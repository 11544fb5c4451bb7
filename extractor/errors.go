package extractor

import "errors"

// ErrMissingStructure reports a document without the main-content subtree.
var ErrMissingStructure = errors.New("extractor: main content (infNFe) not found")
