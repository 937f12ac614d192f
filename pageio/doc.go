// Package pageio reads the per-page artifacts produced by the upstream
// detection stages and writes the per-page output archive.
//
// A page directory holds regions.json (block geometry), lines.json (line
// geometry and confidence), ocr.json (recognized texts in emission order),
// order.json (the reading order, as {"orders":{"*":[...]}}), an optional
// grid.json (sampled inverse dewarping mesh) and either a page.json with
// the image size or the page image itself (page.png, page.tif or page.jpg),
// whose size is probed without decoding pixel data.
//
// The output is one zip archive per page containing page.txt and, when the
// structured export is enabled, page.xml.
package pageio
